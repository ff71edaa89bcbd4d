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

import "github.com/miekg/dns"

// query describes one DNS lookup the planner requests: an owner name and a
// record type.
type query struct {
	owner string
	qtype uint16
}

// requestedServices returns the services enabled by the resolved flags, in
// fixed order.
func requestedServices(checkCalDAV, checkCardDAV bool) []Service {
	services := make([]Service, 0, 2)
	if checkCalDAV {
		services = append(services, CalDAV)
	}
	if checkCardDAV {
		services = append(services, CardDAV)
	}
	return services
}

// candidateOwners returns the owner names eligible for svc in preference
// order: the secure owner first, the insecure owner only when insecure
// lookups are allowed. The selector consumes the exact list the planner
// queried, so a service restricted to secure lookups can never win on an
// insecure owner.
func candidateOwners(svc Service, domain string, secureOnly bool) []string {
	owners := []string{svc.secureOwner(domain)}
	if !secureOnly {
		owners = append(owners, svc.insecureOwner(domain))
	}
	return owners
}

// planQueries expands the resolved feature flags into the set of lookups one
// discovery call needs: SRV and TXT for every candidate owner of every
// requested service. The set contains no duplicates and is never empty; if
// both service flags resolve to false the call fails here, before any
// network I/O.
func planQueries(domain string, checkCalDAV, checkCardDAV, secureOnly bool) ([]query, error) {
	services := requestedServices(checkCalDAV, checkCardDAV)
	if len(services) == 0 {
		return nil, ErrNoServiceRequested
	}
	queries := make([]query, 0, len(services)*4)
	for _, svc := range services {
		for _, owner := range candidateOwners(svc, domain, secureOnly) {
			queries = append(queries,
				query{owner: owner, qtype: dns.TypeSRV},
				query{owner: owner, qtype: dns.TypeTXT},
			)
		}
	}
	return queries, nil
}
