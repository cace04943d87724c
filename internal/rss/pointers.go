package rss

import "strings"

// Pointer references one item of another feed.
type Pointer struct {
	FeedGUID string `json:"feedGuid"`
	ItemGUID string `json:"itemGuid"`
}

// Key returns "feedGuid:itemGuid".
func (p Pointer) Key() string {
	return p.FeedGUID + ":" + p.ItemGUID
}

// ExtractPointers returns the remoteItem pointers of the channel in
// document order.
//
// Each guid is looked up as an attribute named feedGuid or feedguid
// (itemGuid or itemguid), then as a child element with the same names.
// Attributes win when both are present. An element missing either guid
// is skipped.
func ExtractPointers(doc *Document) []Pointer {
	if doc == nil {
		return nil
	}

	pointers := make([]Pointer, 0, len(doc.remoteItems))
	for _, item := range doc.remoteItems {
		p := Pointer{
			FeedGUID: item.lookup("feedGuid", "feedguid"),
			ItemGUID: item.lookup("itemGuid", "itemguid"),
		}
		if p.FeedGUID == "" || p.ItemGUID == "" {
			continue
		}
		pointers = append(pointers, p)
	}
	return pointers
}

// FeedGUIDs returns the distinct feed guids of pointers in first-seen
// order.
func FeedGUIDs(pointers []Pointer) []string {
	seen := make(map[string]struct{}, len(pointers))
	guids := make([]string, 0, len(pointers))
	for _, p := range pointers {
		if _, ok := seen[p.FeedGUID]; ok {
			continue
		}
		seen[p.FeedGUID] = struct{}{}
		guids = append(guids, p.FeedGUID)
	}
	return guids
}

func (e element) lookup(names ...string) string {
	for _, name := range names {
		for _, attr := range e.Attrs {
			if attr.Name.Local == name {
				if v := strings.TrimSpace(attr.Value); v != "" {
					return v
				}
			}
		}
	}
	for _, name := range names {
		for _, child := range e.Children {
			if child.XMLName.Local == name {
				if v := strings.TrimSpace(child.Text); v != "" {
					return v
				}
			}
		}
	}
	return ""
}
