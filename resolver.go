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

// Resolver issues DNS queries without blocking the caller. Implementations
// shipped with this package: DNSResolver (udp/tcp/tcp-tls), DoHResolver and
// DoQResolver.
//
// A Resolver is owned by one Discover call for the call's duration. Reuse
// across sequential calls is fine; concurrent Discover calls must not share
// a resolver instance without external synchronization.
type Resolver interface {
	// SendQuery issues a single query for the given owner name and record
	// type (dns.TypeSRV or dns.TypeTXT) and returns a handle to the
	// in-flight query. A send failure is fatal to the discovery call that
	// issued it.
	SendQuery(owner string, qtype uint16) (Pending, error)
}

// Pending is the handle to one in-flight query.
type Pending interface {
	// Ready reports whether the answer can be read without blocking.
	Ready() bool
	// Answer returns the records received for the query. Callers should
	// only read the answer once Ready reports true. An exchange that failed
	// after a successful send yields no records, the same as an empty
	// answer or a query that outlived the discovery deadline.
	Answer() []Record
}

// pending is the Pending implementation shared by the wire resolvers: the
// exchange goroutine fills records and closes done exactly once.
type pending struct {
	done    chan struct{}
	records []Record
	err     error
}

func newPending() *pending {
	return &pending{done: make(chan struct{})}
}

// complete publishes the exchange outcome. Must be called exactly once.
func (p *pending) complete(records []Record, err error) {
	p.records = records
	p.err = err
	close(p.done)
}

// Ready reports whether the exchange has finished.
func (p *pending) Ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Answer blocks until the exchange has finished and returns its records.
func (p *pending) Answer() []Record {
	<-p.done
	return p.records
}

// Err blocks until the exchange has finished and returns its error, if any.
func (p *pending) Err() error {
	<-p.done
	return p.err
}

// ResolvedAnswer returns an already-completed Pending carrying the given
// records. Useful for Resolver implementations backed by fixtures or caches,
// and for tests.
func ResolvedAnswer(records ...Record) Pending {
	p := newPending()
	p.complete(records, nil)
	return p
}
