package document

import (
	"errors"
	"testing"
)

func TestParseFromJSONString(t *testing.T) {
	payload := `{
		"ROOT": {
			"type": {"resolvedName": "PageCanvas"},
			"props": {"padding": 32},
			"nodes": ["hero"]
		},
		"hero": {
			"type": {"resolvedName": "HeadingBlock"},
			"props": {"text": "Welcome"}
		}
	}`

	doc, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	root := doc.Root()
	if root == nil {
		t.Fatal("expected root node")
	}
	if root.Type.ResolvedName != "PageCanvas" {
		t.Fatalf("expected PageCanvas root, got %q", root.Type.ResolvedName)
	}
	if len(root.Nodes) != 1 || root.Nodes[0] != "hero" {
		t.Fatalf("unexpected child ids: %v", root.Nodes)
	}
}

func TestParseRejectsMissingPayload(t *testing.T) {
	cases := []any{nil, "", "   ", []byte(nil), map[string]any{}}
	for _, payload := range cases {
		if _, err := Parse(payload); !errors.Is(err, ErrDocumentMissing) {
			t.Fatalf("payload %#v: expected ErrDocumentMissing, got %v", payload, err)
		}
	}
}

func TestParseRejectsMalformedEnvelope(t *testing.T) {
	if _, err := Parse(`{"ROOT": {"nodes": [42]}}`); !errors.Is(err, ErrDocumentInvalid) {
		t.Fatalf("expected ErrDocumentInvalid for non-string child id, got %v", err)
	}
	if _, err := Parse(`{"ROOT": "not-a-node"}`); !errors.Is(err, ErrDocumentInvalid) {
		t.Fatalf("expected ErrDocumentInvalid for scalar node, got %v", err)
	}
	if _, err := Parse("not json"); !errors.Is(err, ErrDocumentInvalid) {
		t.Fatalf("expected ErrDocumentInvalid for bad JSON, got %v", err)
	}
}

func TestParsePreservesExistingDocument(t *testing.T) {
	doc := Empty()
	parsed, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if parsed.Root() == nil {
		t.Fatal("expected root to survive passthrough")
	}
}

func TestCloneIsolation(t *testing.T) {
	doc := Document{
		RootID: {
			Type:  NodeType{ResolvedName: "PageCanvas"},
			Props: map[string]any{"settings": map[string]any{"gap": 20}},
			Nodes: []string{"a"},
		},
		"a": {Type: NodeType{ResolvedName: "ParagraphBlock"}, Props: map[string]any{"text": "hi"}},
	}

	copied := doc.Clone()
	copied[RootID].Props["settings"].(map[string]any)["gap"] = 99
	copied[RootID].Nodes[0] = "b"
	copied["a"].Props["text"] = "changed"

	if got := doc[RootID].Props["settings"].(map[string]any)["gap"]; got != 20 {
		t.Fatalf("clone leaked nested prop mutation: %v", got)
	}
	if doc[RootID].Nodes[0] != "a" {
		t.Fatalf("clone leaked child id mutation: %v", doc[RootID].Nodes)
	}
	if doc["a"].Props["text"] != "hi" {
		t.Fatalf("clone leaked prop mutation: %v", doc["a"].Props["text"])
	}
}

func TestLinkedNodeIDsSortedByName(t *testing.T) {
	node := &Node{LinkedNodes: map[string]string{
		"zebra": "n3",
		"alpha": "n1",
		"media": "n2",
	}}
	ids := node.LinkedNodeIDs()
	want := []string{"n1", "n2", "n3"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d linked ids, got %v", len(want), ids)
	}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestCollectReferencesWalksNestedProps(t *testing.T) {
	doc := Document{
		RootID: {Props: map[string]any{
			"hero": map[string]any{"mediaId": "m-1"},
			"gallery": map[string]any{
				"mediaIds": []any{"m-2", "m-1", 42},
			},
		}},
		"list": {Props: map[string]any{
			"tableId": "menu-items",
			"slots": []any{
				map[string]any{"sectionKey": "footer"},
				map[string]any{"deep": map[string]any{"sectionKey": "header"}},
			},
		}},
	}

	refs := CollectReferences(doc)
	if got := refs.MediaIDs(); len(got) != 2 || got[0] != "m-1" || got[1] != "m-2" {
		t.Fatalf("unexpected media ids: %v", got)
	}
	if got := refs.TableIDs(); len(got) != 1 || got[0] != "menu-items" {
		t.Fatalf("unexpected table ids: %v", got)
	}
	if got := refs.SectionKeys(); len(got) != 2 || got[0] != "footer" || got[1] != "header" {
		t.Fatalf("unexpected section keys: %v", got)
	}
}

func TestCollectReferencesEmptyDocument(t *testing.T) {
	refs := CollectReferences(Empty())
	if !refs.Empty() {
		t.Fatalf("expected no references, got media=%v tables=%v sections=%v",
			refs.MediaIDs(), refs.TableIDs(), refs.SectionKeys())
	}
}
