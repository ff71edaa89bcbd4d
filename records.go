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
	"strings"

	"github.com/miekg/dns"
)

// Service identifies one discoverable DAV service kind. Its string form is
// the service label without the leading underscore and doubles as the key of
// the Discover result map.
type Service string

const (
	// CalDAV is the calendaring service (RFC 4791).
	CalDAV Service = "caldav"
	// CardDAV is the contacts service (RFC 6352).
	CardDAV Service = "carddav"
)

// secureOwner returns the owner name of the TLS service variant for domain,
// e.g. "_caldavs._tcp.example.net.".
func (s Service) secureOwner(domain string) string {
	return normalizeOwner("_" + string(s) + "s._tcp." + domain)
}

// insecureOwner returns the owner name of the plaintext service variant for
// domain, e.g. "_caldav._tcp.example.net.".
func (s Service) insecureOwner(domain string) string {
	return normalizeOwner("_" + string(s) + "._tcp." + domain)
}

// wellKnownPath returns the RFC 6764 default context path for the service.
func (s Service) wellKnownPath() string {
	return "/.well-known/" + string(s)
}

// normalizeOwner canonicalizes a DNS owner name: lower-cased and fully
// qualified. All owner comparisons in this package happen on normalized
// forms only.
func normalizeOwner(name string) string {
	return strings.ToLower(dns.Fqdn(name))
}

// Record is a single DNS answer relevant to discovery. It is a closed union:
// the only implementations are *SRVRecord and *TXTRecord, so a record's
// fields can never be read under the wrong tag.
type Record interface {
	// Owner returns the owner name the record answers for.
	Owner() string
	// Type returns the record type, dns.TypeSRV or dns.TypeTXT.
	Type() uint16

	sealed()
}

// SRVRecord is an SRV answer: the target host and port of a service instance
// plus its selection priority and weight (RFC 2782).
type SRVRecord struct {
	Name     string
	Priority uint16
	Weight   uint16
	Target   string
	Port     uint16
}

// Owner returns the owner name the record answers for.
func (r *SRVRecord) Owner() string { return r.Name }

// Type returns dns.TypeSRV.
func (r *SRVRecord) Type() uint16 { return dns.TypeSRV }

func (*SRVRecord) sealed() {}

// TXTRecord is a TXT answer: the ordered character strings of the record.
type TXTRecord struct {
	Name string
	Text []string
}

// Owner returns the owner name the record answers for.
func (r *TXTRecord) Owner() string { return r.Name }

// Type returns dns.TypeTXT.
func (r *TXTRecord) Type() uint16 { return dns.TypeTXT }

func (*TXTRecord) sealed() {}

// normalizeRecord returns a copy of rec with its owner name in canonical
// form. The collector normalizes every record immediately on receipt so the
// selector only ever compares normalized names.
func normalizeRecord(rec Record) Record {
	switch rec := rec.(type) {
	case *SRVRecord:
		c := *rec
		c.Name = normalizeOwner(c.Name)
		return &c
	case *TXTRecord:
		c := *rec
		c.Name = normalizeOwner(c.Name)
		c.Text = append([]string(nil), rec.Text...)
		return &c
	default:
		return rec
	}
}

// recordsFromMsg extracts the SRV and TXT records from the answer section of
// a DNS response. Other record types (CNAMEs in the chain, OPT, ...) are
// dropped.
func recordsFromMsg(msg *dns.Msg) []Record {
	if msg == nil {
		return nil
	}
	out := make([]Record, 0, len(msg.Answer))
	for _, rr := range msg.Answer {
		switch rr := rr.(type) {
		case *dns.SRV:
			out = append(out, &SRVRecord{
				Name:     rr.Hdr.Name,
				Priority: rr.Priority,
				Weight:   rr.Weight,
				Target:   rr.Target,
				Port:     rr.Port,
			})
		case *dns.TXT:
			out = append(out, &TXTRecord{
				Name: rr.Hdr.Name,
				Text: append([]string(nil), rr.Txt...),
			})
		}
	}
	return out
}
