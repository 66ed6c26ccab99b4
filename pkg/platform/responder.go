package platform

import "maps"

// Responder is the raw platform handle a turn writes its reply through.
//
// Terminal calls (Ask, Tell, AskWithList, ...) each build a complete payload;
// the last call wins. That replacement rule is what lets the error path
// overwrite a partially composed turn with a plain apology.
type Responder struct {
	req      *Request
	payload  *Payload
	contexts []Context
	storage  map[string]string
}

// NewResponder wraps a parsed request. The request's persisted storage is
// copied so handler mutations only reach the platform through the payload.
func NewResponder(req *Request) *Responder {
	storage := make(map[string]string, len(req.Storage))
	maps.Copy(storage, req.Storage)
	return &Responder{req: req, storage: storage}
}

// Request returns the turn's parsed request.
func (r *Responder) Request() *Request {
	return r.req
}

// Storage is the mutable per-actor state persisted by the platform.
func (r *Responder) Storage() map[string]string {
	return r.storage
}

// SetContext records a conversational context to carry into following turns.
func (r *Responder) SetContext(name string, lifespan int, params map[string]string) {
	for i := range r.contexts {
		if r.contexts[i].Name == name {
			r.contexts[i].Lifespan = lifespan
			r.contexts[i].Parameters = params
			return
		}
	}
	r.contexts = append(r.contexts, Context{Name: name, Lifespan: lifespan, Parameters: params})
}

// Ask submits a reply and keeps the conversation open.
func (r *Responder) Ask(rr *RichResponse) {
	r.finalize(true, rr, nil)
}

// Tell submits a reply and ends the conversation.
func (r *Responder) Tell(rr *RichResponse) {
	r.finalize(false, rr, nil)
}

// AskText submits a single plain message and keeps the conversation open.
func (r *Responder) AskText(text string) {
	rr := &RichResponse{}
	rr.AddSimpleResponse(SimpleResponseItem{TextToSpeech: text, DisplayText: text})
	r.Ask(rr)
}

// TellText ends the conversation with a single plain message.
func (r *Responder) TellText(text string) {
	rr := &RichResponse{}
	rr.AddSimpleResponse(SimpleResponseItem{TextToSpeech: text, DisplayText: text})
	r.Tell(rr)
}

// AskWithList submits the reply with options presented as a list.
func (r *Responder) AskWithList(rr *RichResponse, title string, items []ListItem) {
	r.finalize(true, rr, &SystemIntent{
		Intent: IntentOption,
		List:   &ListSelect{Title: title, Items: items},
	})
}

// AskWithCarousel submits the reply with options presented as a carousel.
func (r *Responder) AskWithCarousel(rr *RichResponse, items []ListItem) {
	r.finalize(true, rr, &SystemIntent{
		Intent:   IntentOption,
		Carousel: &CarouselSelect{Items: items},
	})
}

// AskForTransactionDecision asks the actor to approve a proposed order.
// The transaction fully replaces any other turn content.
func (r *Responder) AskForTransactionDecision(order Order, cfg PaymentConfig) {
	r.finalize(true, nil, &SystemIntent{
		Intent:      IntentTransaction,
		Transaction: &TransactionDecision{Order: order, PaymentConfig: cfg},
	})
}

// AskForUpdatePermission asks the actor to grant push update permission.
func (r *Responder) AskForUpdatePermission(intent, title string) {
	r.finalize(true, nil, &SystemIntent{
		Intent:     IntentUpdatePermission,
		Permission: &PermissionRequest{Intent: intent, Title: title},
	})
}

// Responded reports whether a terminal call has produced a payload.
func (r *Responder) Responded() bool {
	return r.payload != nil
}

// Payload returns the reply to submit, or nil when no terminal call was made.
func (r *Responder) Payload() *Payload {
	return r.payload
}

func (r *Responder) finalize(expectResponse bool, rr *RichResponse, intent *SystemIntent) {
	r.payload = &Payload{
		ExpectUserResponse: expectResponse,
		RichResponse:       rr,
		SystemIntent:       intent,
		OutputContexts:     r.contexts,
		UserStorage:        r.storage,
	}
}
