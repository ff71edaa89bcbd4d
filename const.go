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

import "time"

const (
	// defaultTimeout bounds the wait for DNS answers in one Discover call.
	defaultTimeout = 5 * time.Second
	// defaultPollInterval is the readiness poll granularity of the answer
	// collector. The collector blocks for at most this long before
	// re-checking the pending queries and the deadline.
	defaultPollInterval = 100 * time.Millisecond
	maxTimeout          = 5 * time.Minute
	minTimeout          = 100 * time.Millisecond
	dialTimeout         = 2 * time.Second
	readTimeout         = 2 * time.Second
	// maxReadLoopIterations is the maximum number of DNS response messages a
	// wire resolver will read while waiting for one whose ID matches the
	// request. This guards against a malicious or misbehaving upstream that
	// sends many responses with wrong IDs.
	maxReadLoopIterations = 100
	// wellKnownHTTPPort and wellKnownHTTPSPort are omitted from synthesized
	// URLs when they match the scheme.
	wellKnownHTTPPort  = 80
	wellKnownHTTPSPort = 443
	// TCPTLS net type for a DNSResolver (DNS-over-TLS).
	TCPTLS = "tcp-tls"
	// TCP net type for a DNSResolver.
	TCP = "tcp"
	// UDP net type for a DNSResolver.
	UDP = "udp"
	// DOH net type reported by NewDoHResolver.
	DOH = "doh"
	// DOH3 net type reported by NewDoH3Resolver.
	DOH3 = "doh3"
	// DOQ net type reported by NewDoQResolver.
	DOQ = "doq"
)
