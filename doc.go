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

// Package davdisco locates CalDAV and CardDAV endpoints for the domain of an
// email address using DNS service discovery (RFC 6764).
//
// For each requested service it queries the SRV and TXT records of the TLS
// service name (_caldavs._tcp / _carddavs._tcp) and, unless restricted to
// secure lookups, of the plain service name (_caldav._tcp / _carddav._tcp).
// All queries of one call are dispatched together and awaited under a single
// wall-clock deadline; queries still unanswered at the deadline contribute no
// records and are not an error. The winning SRV record per service is turned
// into a URL, honoring a TXT "path=" attribute and falling back to the
// RFC 6764 well-known context path. The synthesized URLs are never fetched.
//
// # Quick Start
//
//	d, err := davdisco.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	urls, err := d.Discover(context.Background(), "foo@example.net")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(urls[davdisco.CalDAV])  // e.g. https://cal.example.net/dav/
//	fmt.Println(urls[davdisco.CardDAV]) // absent if no SRV record was found
//
// # Configuration
//
// Use functional options to configure a Discoverer:
//
//	d, err := davdisco.New(
//		davdisco.WithResolver(davdisco.NewDNSResolver("192.0.2.53:53", davdisco.UDP)),
//		davdisco.WithTimeout(2*time.Second),
//		davdisco.WithSecureOnly(true),
//	)
//
// Feature flags can also be overridden for a single call:
//
//	urls, err := d.Discover(ctx, "foo@example.net", davdisco.CheckCardDAV(false))
//
// # Resolvers
//
// The DNS transport is pluggable through the Resolver interface. Provided
// implementations:
//
//   - DNS/UDP, DNS/TCP (plain, RFC 1035)
//   - DoT  - DNS-over-TLS   (RFC 7858) - NewDNSResolver with TCPTLS
//   - DoH  - DNS-over-HTTPS (RFC 8484) - NewDoHResolver (HTTP/2), NewDoH3Resolver (HTTP/3)
//   - DoQ  - DNS-over-QUIC  (RFC 9250) - NewDoQResolver
//
// A resolver may be reused by sequential Discover calls; concurrent calls
// sharing one resolver instance require external synchronization.
//
// # Determinism
//
// When several SRV records share the minimum priority, the record with the
// greatest weight is selected. RFC 2782 prescribes weighted-random selection
// here; davdisco deliberately keeps the deterministic pick so that repeated
// discovery over an unchanged zone yields identical results.
package davdisco
