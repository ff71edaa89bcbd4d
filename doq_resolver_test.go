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
	"crypto/tls"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDoQResolver(t *testing.T) {
	r := NewDoQResolver("dns.example.com:853")
	defer r.Close() //nolint:errcheck

	assert.Equal(t, DOQ, r.Net())
	assert.Equal(t, "dns.example.com:853", r.Endpoint())
	assert.Contains(t, r.tlsConfig.NextProtos, doqALPN)
	assert.GreaterOrEqual(t, r.tlsConfig.MinVersion, uint16(tls.VersionTLS13))
}

func TestDoQResolverInvalidOwner(t *testing.T) {
	r := NewDoQResolver("dns.example.com:853")
	defer r.Close() //nolint:errcheck

	_, err := r.SendQuery("..not..a..name..", dns.TypeSRV)
	require.Error(t, err)
}

// TestDoQResolverExchangeFailure verifies a failed QUIC dial degrades to an
// empty answer after a successful send.
func TestDoQResolverExchangeFailure(t *testing.T) {
	r := NewDoQResolver("127.0.0.1:1")
	defer r.Close() //nolint:errcheck

	p, err := r.SendQuery("_caldavs._tcp.example.net.", dns.TypeSRV)
	require.NoError(t, err)
	require.Empty(t, p.Answer())
}

func TestDoQCloseIdempotent(t *testing.T) {
	r := NewDoQResolver("dns.example.com:853")
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
}
