package document

import "sort"

// References is the set of external identifiers a document points at.
// Extraction is order-independent; the accessors return sorted copies so
// callers get deterministic iteration.
type References struct {
	mediaIDs    map[string]struct{}
	tableIDs    map[string]struct{}
	sectionKeys map[string]struct{}
}

// CollectReferences walks every node's props recursively and gathers the
// conventionally named reference keys: mediaId (single), mediaIds (array),
// tableId, and sectionKey. Nested objects and arrays are visited in full.
func CollectReferences(doc Document) References {
	refs := References{
		mediaIDs:    map[string]struct{}{},
		tableIDs:    map[string]struct{}{},
		sectionKeys: map[string]struct{}{},
	}
	for _, node := range doc {
		if node == nil {
			continue
		}
		refs.walk(node.Props)
	}
	return refs
}

func (r *References) walk(value any) {
	switch typed := value.(type) {
	case []any:
		for _, item := range typed {
			r.walk(item)
		}
	case map[string]any:
		for key, val := range typed {
			switch key {
			case "mediaId":
				if id, ok := val.(string); ok && id != "" {
					r.mediaIDs[id] = struct{}{}
				}
			case "mediaIds":
				if ids, ok := val.([]any); ok {
					for _, entry := range ids {
						if id, ok := entry.(string); ok && id != "" {
							r.mediaIDs[id] = struct{}{}
						}
					}
				}
			case "tableId":
				if id, ok := val.(string); ok && id != "" {
					r.tableIDs[id] = struct{}{}
				}
			case "sectionKey":
				if key, ok := val.(string); ok && key != "" {
					r.sectionKeys[key] = struct{}{}
				}
			}
			r.walk(val)
		}
	}
}

// MediaIDs returns the referenced media identifiers, sorted.
func (r References) MediaIDs() []string {
	return sorted(r.mediaIDs)
}

// TableIDs returns the referenced table identifiers, sorted.
func (r References) TableIDs() []string {
	return sorted(r.tableIDs)
}

// SectionKeys returns the referenced section keys, sorted.
func (r References) SectionKeys() []string {
	return sorted(r.sectionKeys)
}

// Empty reports whether the document referenced nothing external.
func (r References) Empty() bool {
	return len(r.mediaIDs) == 0 && len(r.tableIDs) == 0 && len(r.sectionKeys) == 0
}

func sorted(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
