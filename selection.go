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

import "github.com/davdisco/davdisco/internal/selector"

// selection pairs the SRV record that won an owner name with the TXT record
// found for that same owner. The TXT record is optional.
type selection struct {
	owner string
	srv   *SRVRecord
	txt   *TXTRecord
}

// selectService picks at most one SRV record (and its TXT companion) for a
// service from the accumulated answers. Candidate owners are consumed in
// preference order; the first owner with any SRV match wins and later
// candidates are never considered, so secure and insecure answers are never
// merged or compared against each other. The TXT lookup only ever targets
// the winning owner.
func selectService(records []Record, owners []string) (selection, bool) {
	seq := selector.NewSequentialSelector(owners)
	for owner := seq.Pick(); owner != ""; owner = seq.Pick() {
		srv := selectSRV(records, owner)
		if srv == nil {
			continue
		}
		return selection{owner: owner, srv: srv, txt: selectTXT(records, owner)}, true
	}
	return selection{}, false
}

// selectSRV returns the best SRV record for owner: minimum priority,
// breaking priority ties on maximum weight. The tie-break is deliberately
// deterministic instead of the RFC 2782 weighted-random pick; see the
// package documentation. Records and owner are both in normalized form, so
// the match is effectively case-insensitive.
func selectSRV(records []Record, owner string) *SRVRecord {
	var best *SRVRecord
	for _, rec := range records {
		srv, ok := rec.(*SRVRecord)
		if !ok || srv.Name != owner {
			continue
		}
		if best == nil || srv.Priority < best.Priority ||
			(srv.Priority == best.Priority && srv.Weight > best.Weight) {
			best = srv
		}
	}
	return best
}

// selectTXT returns the first TXT record for owner, or nil. A missing TXT
// record is not an error; the URL synthesizer falls back to the well-known
// path.
func selectTXT(records []Record, owner string) *TXTRecord {
	for _, rec := range records {
		if txt, ok := rec.(*TXTRecord); ok && txt.Name == owner {
			return txt
		}
	}
	return nil
}
