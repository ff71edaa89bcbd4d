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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are registered on the default prometheus registerer under the
// davdisco namespace.
var (
	// QueriesTotal counts DNS queries dispatched, by record type.
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "davdisco",
		Name:      "queries_total",
		Help:      "DNS queries dispatched, by record type.",
	}, []string{"type"})
	// AnswersTotal counts answer records received before the deadline, by
	// record type.
	AnswersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "davdisco",
		Name:      "answers_total",
		Help:      "Answer records received before the deadline, by record type.",
	}, []string{"type"})
	// DeadlineTruncations counts discovery calls that reached the deadline
	// with queries still pending.
	DeadlineTruncations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "davdisco",
		Name:      "deadline_truncations_total",
		Help:      "Discovery calls that reached the deadline with queries still pending.",
	})
	// DiscoveryDuration observes the wall-clock duration of Discover calls.
	DiscoveryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "davdisco",
		Name:      "discovery_duration_seconds",
		Help:      "Wall-clock duration of Discover calls.",
		Buckets:   prometheus.DefBuckets,
	})
)
