package rss

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const playlistRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:podcast="https://podcastindex.org/namespace/1.0">
	<channel>
		<title>Road Trip Mix</title>
		<link>https://example.com/mix</link>
		<description>Songs for the road</description>
		<podcast:guid>playlist-guid</podcast:guid>
		<podcast:medium>musicL</podcast:medium>
		<podcast:remoteItem feedGuid="feed-a" itemGuid="item-1"/>
		<podcast:remoteItem feedGuid="feed-b" itemGuid="item-2"/>
		<podcast:remoteItem feedGuid="feed-a" itemGuid="item-3"/>
	</channel>
</rss>`

func TestParse(t *testing.T) {
	doc, err := ParseString(playlistRSS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "Road Trip Mix" {
		t.Errorf("expected title Road Trip Mix, got %q", doc.Title)
	}
	if doc.GUID != "playlist-guid" {
		t.Errorf("expected guid playlist-guid, got %q", doc.GUID)
	}
	if doc.Medium != "musicL" {
		t.Errorf("expected medium musicL, got %q", doc.Medium)
	}
	if doc.Link != "https://example.com/mix" {
		t.Errorf("expected link https://example.com/mix, got %q", doc.Link)
	}

	want := []Pointer{
		{FeedGUID: "feed-a", ItemGUID: "item-1"},
		{FeedGUID: "feed-b", ItemGUID: "item-2"},
		{FeedGUID: "feed-a", ItemGUID: "item-3"},
	}
	if got := ExtractPointers(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("expected pointers %v, got %v", want, got)
	}
}

func TestParse_ChannelLink(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "atom self link after channel link",
			body: `<rss xmlns:atom="http://www.w3.org/2005/Atom"><channel>
				<link>https://example.com/mix</link>
				<atom:link href="https://example.com/mix.xml" rel="self" type="application/rss+xml"/>
			</channel></rss>`,
			want: "https://example.com/mix",
		},
		{
			name: "atom self link before channel link",
			body: `<rss xmlns:atom="http://www.w3.org/2005/Atom"><channel>
				<atom:link href="https://example.com/mix.xml" rel="self"/>
				<link>https://example.com/mix</link>
			</channel></rss>`,
			want: "https://example.com/mix",
		},
		{
			name: "only atom link",
			body: `<rss xmlns:atom="http://www.w3.org/2005/Atom"><channel>
				<atom:link href="https://example.com/mix.xml" rel="self"/>
			</channel></rss>`,
			want: "",
		},
		{
			name: "item links ignored",
			body: `<rss><channel>
				<link>https://example.com/mix</link>
				<item><link>https://example.com/episode</link></item>
			</channel></rss>`,
			want: "https://example.com/mix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(tt.body)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if doc.Link != tt.want {
				t.Errorf("expected link %q, got %q", tt.want, doc.Link)
			}
		})
	}
}

func TestParse_BareChannel(t *testing.T) {
	doc, err := ParseString(`<channel><remoteItem feedGuid="f" itemGuid="i"/></channel>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ExtractPointers(doc); len(got) != 1 {
		t.Errorf("expected 1 pointer, got %v", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty document", input: "", wantErr: ErrNoChannel},
		{name: "no channel", input: `<rss version="2.0"><foo/></rss>`, wantErr: ErrNoChannel},
		{name: "not xml", input: `{"feed": []}`, wantErr: ErrNoChannel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExtractPointers_SingleAndMany(t *testing.T) {
	single, err := ParseString(`<rss><channel>
		<podcast:remoteItem feedGuid="feed-a" itemGuid="item-1"/>
	</channel></rss>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	many, err := ParseString(`<rss><channel>
		<podcast:remoteItem feedGuid="feed-a" itemGuid="item-1"/>
		<podcast:remoteItem feedGuid="feed-a" itemGuid="item-1"/>
		<podcast:remoteItem feedGuid="feed-a" itemGuid="item-1"/>
	</channel></rss>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	one := ExtractPointers(single)
	three := ExtractPointers(many)
	if len(one) != 1 || len(three) != 3 {
		t.Fatalf("expected 1 and 3 pointers, got %d and %d", len(one), len(three))
	}
	for _, p := range three {
		if p != one[0] {
			t.Errorf("expected %v, got %v", one[0], p)
		}
	}
}

func TestExtractPointers_NamingVariants(t *testing.T) {
	want := Pointer{FeedGUID: "feed-a", ItemGUID: "item-1"}

	tests := []struct {
		name string
		item string
	}{
		{
			name: "camel case attributes",
			item: `<podcast:remoteItem feedGuid="feed-a" itemGuid="item-1"/>`,
		},
		{
			name: "lower case attributes",
			item: `<podcast:remoteItem feedguid="feed-a" itemguid="item-1"/>`,
		},
		{
			name: "camel case children",
			item: `<podcast:remoteItem><feedGuid>feed-a</feedGuid><itemGuid>item-1</itemGuid></podcast:remoteItem>`,
		},
		{
			name: "lower case children",
			item: `<podcast:remoteItem><feedguid> feed-a </feedguid><itemguid>item-1</itemguid></podcast:remoteItem>`,
		},
		{
			name: "mixed attribute and child",
			item: `<podcast:remoteItem feedGuid="feed-a"><itemGuid>item-1</itemGuid></podcast:remoteItem>`,
		},
		{
			name: "attribute wins over child",
			item: `<podcast:remoteItem feedGuid="feed-a" itemGuid="item-1"><feedGuid>other</feedGuid><itemGuid>other</itemGuid></podcast:remoteItem>`,
		},
		{
			name: "with medium attribute",
			item: `<podcast:remoteItem medium="music" feedGuid="feed-a" feedUrl="https://x" itemGuid="item-1"/>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(`<rss xmlns:podcast="https://podcastindex.org/namespace/1.0"><channel>` + tt.item + `</channel></rss>`)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := ExtractPointers(doc)
			if len(got) != 1 || got[0] != want {
				t.Errorf("expected [%v], got %v", want, got)
			}
		})
	}
}

func TestExtractPointers_DropsIncomplete(t *testing.T) {
	doc, err := ParseString(`<rss><channel>
		<podcast:remoteItem feedGuid="feed-a"/>
		<podcast:remoteItem itemGuid="item-1"/>
		<podcast:remoteItem feedGuid="" itemGuid="item-2"/>
		<podcast:remoteItem feedGuid="feed-b" itemGuid="item-3"/>
		<podcast:remoteItem/>
	</channel></rss>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Pointer{{FeedGUID: "feed-b", ItemGUID: "item-3"}}
	if got := ExtractPointers(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExtractPointers_Empty(t *testing.T) {
	doc, err := ParseString(`<rss><channel><title>Nothing here</title></channel></rss>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ExtractPointers(doc); len(got) != 0 {
		t.Errorf("expected no pointers, got %v", got)
	}
	if got := ExtractPointers(nil); got != nil {
		t.Errorf("expected nil for nil document, got %v", got)
	}
}

func TestExtractPointers_IgnoresItemLevelRemoteItems(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<rss><channel>
		<item><podcast:remoteItem feedGuid="nested" itemGuid="nested"/></item>
		<podcast:remoteItem feedGuid="feed-a" itemGuid="item-1"/>
	</channel></rss>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Pointer{{FeedGUID: "feed-a", ItemGUID: "item-1"}}
	if got := ExtractPointers(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestFeedGUIDs(t *testing.T) {
	pointers := []Pointer{
		{FeedGUID: "b", ItemGUID: "1"},
		{FeedGUID: "a", ItemGUID: "2"},
		{FeedGUID: "b", ItemGUID: "3"},
	}
	want := []string{"b", "a"}
	if got := FeedGUIDs(pointers); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got := FeedGUIDs(nil); len(got) != 0 {
		t.Errorf("expected no guids, got %v", got)
	}
}
