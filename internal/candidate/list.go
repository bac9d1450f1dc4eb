package candidate

import "strings"

// List is an ordered collection of candidate records.
type List struct {
	Items []*Record
}

func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

func (l *List) FindByExternalID(id string) *Record {
	for _, c := range l.Items {
		if c.ExternalID == id {
			return c
		}
	}
	return nil
}

// ExternalIDs returns the ids of all records in order.
func (l *List) ExternalIDs() []string {
	ids := make([]string, 0, l.Len())
	for _, c := range l.Items {
		ids = append(ids, c.ExternalID)
	}
	return ids
}

// Append adds records to the list, dropping any whose profile URL is already
// present. The profile URL is the canonical dedup key; the first record seen
// for a URL wins.
func (l *List) Append(records ...*Record) []string {
	seen := make(map[string]bool, len(l.Items))
	for _, c := range l.Items {
		if key := dedupKey(c); key != "" {
			seen[key] = true
		}
	}

	var dropped []string
	for _, c := range records {
		key := dedupKey(c)
		if key != "" && seen[key] {
			dropped = append(dropped, c.ExternalID)
			continue
		}
		if key != "" {
			seen[key] = true
		}
		l.Items = append(l.Items, c)
	}
	return dropped
}

func dedupKey(c *Record) string {
	if c == nil {
		return ""
	}
	if url := strings.TrimSpace(strings.ToLower(c.ProfileURL)); url != "" {
		return url
	}
	return strings.TrimSpace(c.ExternalID)
}
