// Copyright (c) 2026 the davdisco authors.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package davdisco

import (
	"context"

	"github.com/miekg/dns"
	"go.uber.org/zap"
)

// inflight couples a planned query with its pending handle.
type inflight struct {
	query
	handle Pending
}

// collect is the dispatch-and-gather half of a discovery call. Every query
// is issued up front; a send failure aborts immediately with a
// DispatchError and no partial result. The pending set is then polled at the
// configured granularity until it drains or the wall-clock deadline passes.
// Deadline expiry is not an error: unanswered queries simply contribute no
// records, so the returned collection may be a strict subset of what was
// requested. Record owner names are normalized here, on receipt; downstream
// selection only sees normalized forms.
func (d *Discoverer) collect(ctx context.Context, queries []query) ([]Record, error) {
	pending := make([]inflight, 0, len(queries))
	for _, q := range queries {
		handle, err := d.resolver.SendQuery(q.owner, q.qtype)
		if err != nil {
			return nil, &DispatchError{Owner: q.owner, Qtype: q.qtype, Err: err}
		}
		QueriesTotal.WithLabelValues(dns.TypeToString[q.qtype]).Inc()
		pending = append(pending, inflight{query: q, handle: handle})
	}
	d.logger.Debug("queries dispatched", zap.Int("count", len(pending)))

	var records []Record
	deadline := d.clock.Now().Add(d.timeout)
	for len(pending) > 0 {
		remaining := pending[:0]
		for _, f := range pending {
			if !f.handle.Ready() {
				remaining = append(remaining, f)
				continue
			}
			for _, rec := range f.handle.Answer() {
				records = append(records, normalizeRecord(rec))
				AnswersTotal.WithLabelValues(dns.TypeToString[rec.Type()]).Inc()
			}
		}
		pending = remaining
		if len(pending) == 0 {
			break
		}
		if !d.clock.Now().Before(deadline) {
			DeadlineTruncations.Inc()
			d.logger.Debug("deadline reached with queries outstanding",
				zap.Int("outstanding", len(pending)))
			break
		}
		timer := d.clock.Timer(d.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return records, nil
}
