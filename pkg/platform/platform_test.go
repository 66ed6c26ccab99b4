package platform

import (
	"errors"
	"testing"
)

func TestParseLegacy(t *testing.T) {
	body := []byte(`{
	  "result": {
	    "action": "customer.checkLine",
	    "parameters": {"phone": "5551234"},
	    "contexts": [{"name": "wait_in_line", "lifespan": 2, "parameters": {"phone": "5550000"}}]
	  },
	  "conversation": {"id": "c-1", "type": "new"},
	  "user": {"id": "actor-1", "permissionGranted": true, "storage": {"storeid": "2"}},
	  "surface": {"capabilities": ["screen_output", "audio_output"]},
	  "selectedOption": "1"
	}`)

	req, err := ParseLegacy(body)
	if err != nil {
		t.Fatalf("ParseLegacy error: %v", err)
	}

	if req.Action != "customer.checkLine" {
		t.Fatalf("action = %q", req.Action)
	}
	if !req.NewConversation {
		t.Fatal("expected new conversation")
	}
	if req.ActorID != "actor-1" {
		t.Fatalf("actor id = %q", req.ActorID)
	}
	if !req.HasCapability(CapabilityScreenOutput) {
		t.Fatal("expected screen capability")
	}
	if req.Storage["storeid"] != "2" {
		t.Fatalf("storage storeid = %q", req.Storage["storeid"])
	}
	if got := req.Argument("phone"); got != "5551234" {
		t.Fatalf("argument phone = %q", got)
	}
	if _, ok := req.Context("wait_in_line"); !ok {
		t.Fatal("expected wait_in_line context")
	}
}

func TestParseLegacyConversationTypeIgnoresCase(t *testing.T) {
	for _, tc := range []struct {
		convType string
		want     bool
	}{
		{"NEW", true},
		{"new", true},
		{"New", true},
		{"ACTIVE", false},
		{"", false},
	} {
		body := []byte(`{
		  "result": {"action": "input.welcome"},
		  "conversation": {"id": "c-1", "type": "` + tc.convType + `"}
		}`)

		req, err := ParseLegacy(body)
		if err != nil {
			t.Fatalf("ParseLegacy(%q) error: %v", tc.convType, err)
		}
		if req.NewConversation != tc.want {
			t.Fatalf("NewConversation = %v for type %q, want %v", req.NewConversation, tc.convType, tc.want)
		}
	}
}

func TestParseLegacyArgumentFallsBackToContext(t *testing.T) {
	body := []byte(`{
	  "result": {
	    "action": "customer.waitInLine",
	    "contexts": [{"name": "wait_in_line", "parameters": {"phone": "5550000"}}]
	  }
	}`)

	req, err := ParseLegacy(body)
	if err != nil {
		t.Fatalf("ParseLegacy error: %v", err)
	}
	if got := req.Argument("phone"); got != "5550000" {
		t.Fatalf("argument phone = %q, want context fallback", got)
	}
}

func TestParseLegacyDetectsSuccessorShape(t *testing.T) {
	_, err := ParseLegacy([]byte(`{"queryResult": {"action": "customer.checkLine"}}`))
	if !errors.Is(err, ErrSuccessorProtocol) {
		t.Fatalf("err = %v, want ErrSuccessorProtocol", err)
	}
}

func TestParseLegacyRejectsEmptyBody(t *testing.T) {
	if _, err := ParseLegacy([]byte(`{}`)); err == nil {
		t.Fatal("expected error for body without result")
	}
	if _, err := ParseLegacy([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestResponderLastTerminalCallWins(t *testing.T) {
	req := &Request{Storage: map[string]string{}}
	r := NewResponder(req)

	rr := &RichResponse{}
	rr.AddSimpleResponse(SimpleResponseItem{TextToSpeech: "first", DisplayText: "first"})
	r.Ask(rr)

	r.TellText("apology")

	payload := r.Payload()
	if payload == nil {
		t.Fatal("expected payload")
	}
	if payload.ExpectUserResponse {
		t.Fatal("expected conversation to end")
	}
	simple := payload.RichResponse.SimpleResponses()
	if len(simple) != 1 || simple[0].DisplayText != "apology" {
		t.Fatalf("payload responses = %+v, want single apology", simple)
	}
}

func TestResponderStorageIsCopied(t *testing.T) {
	req := &Request{Storage: map[string]string{"storeid": "1"}}
	r := NewResponder(req)

	r.Storage()["storeid"] = "2"
	if req.Storage["storeid"] != "1" {
		t.Fatal("request storage mutated through responder")
	}

	r.Ask(&RichResponse{})
	if got := r.Payload().UserStorage["storeid"]; got != "2" {
		t.Fatalf("payload storage storeid = %q, want 2", got)
	}
}

func TestResponderSetContextOverwritesByName(t *testing.T) {
	r := NewResponder(&Request{Storage: map[string]string{}})
	r.SetContext("select_store", 1, nil)
	r.SetContext("select_store", 2, map[string]string{"k": "v"})
	r.Ask(&RichResponse{})

	contexts := r.Payload().OutputContexts
	if len(contexts) != 1 {
		t.Fatalf("contexts = %d, want 1", len(contexts))
	}
	if contexts[0].Lifespan != 2 || contexts[0].Parameters["k"] != "v" {
		t.Fatalf("context not overwritten: %+v", contexts[0])
	}
}

func TestAskWithListCarriesSystemIntent(t *testing.T) {
	r := NewResponder(&Request{Storage: map[string]string{}})
	items := []ListItem{{Key: "1", Title: "Store 1"}}
	r.AskWithList(&RichResponse{}, "Stores", items)

	intent := r.Payload().SystemIntent
	if intent == nil || intent.Intent != IntentOption || intent.List == nil {
		t.Fatalf("system intent = %+v, want list select", intent)
	}
	if intent.List.Title != "Stores" || len(intent.List.Items) != 1 {
		t.Fatalf("list select = %+v", intent.List)
	}
}
