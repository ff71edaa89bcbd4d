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
	"testing"

	"github.com/miekg/dns"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateOwners(t *testing.T) {
	owners := candidateOwners(CalDAV, "example.net", false)
	require.Equal(t, []string{
		"_caldavs._tcp.example.net.",
		"_caldav._tcp.example.net.",
	}, owners)

	owners = candidateOwners(CardDAV, "example.net", true)
	require.Equal(t, []string{"_carddavs._tcp.example.net."}, owners)
}

func TestPlanQueries(t *testing.T) {
	queries, err := planQueries("example.net", true, false, false)
	require.NoError(t, err)
	require.Equal(t, []query{
		{owner: "_caldavs._tcp.example.net.", qtype: dns.TypeSRV},
		{owner: "_caldavs._tcp.example.net.", qtype: dns.TypeTXT},
		{owner: "_caldav._tcp.example.net.", qtype: dns.TypeSRV},
		{owner: "_caldav._tcp.example.net.", qtype: dns.TypeTXT},
	}, queries)
}

// TestPlanQueriesBothServices verifies both services are planned and each
// owner carries exactly one SRV and one TXT query.
func TestPlanQueriesBothServices(t *testing.T) {
	queries, err := planQueries("example.net", true, true, false)
	require.NoError(t, err)
	require.Len(t, queries, 8)

	perOwner := make(map[string]map[uint16]int)
	for _, q := range queries {
		if perOwner[q.owner] == nil {
			perOwner[q.owner] = make(map[uint16]int)
		}
		perOwner[q.owner][q.qtype]++
	}
	require.Len(t, perOwner, 4)
	for owner, counts := range perOwner {
		assert.Equal(t, 1, counts[dns.TypeSRV], owner)
		assert.Equal(t, 1, counts[dns.TypeTXT], owner)
	}
}

func TestPlanQueriesNoServices(t *testing.T) {
	_, err := planQueries("example.net", false, false, false)
	require.True(t, errors.Is(err, ErrNoServiceRequested))
}
