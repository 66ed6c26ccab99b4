package platform

// Payload is the legacy webhook reply submitted back to the platform.
type Payload struct {
	ExpectUserResponse bool              `json:"expectUserResponse"`
	RichResponse       *RichResponse     `json:"richResponse,omitempty"`
	SystemIntent       *SystemIntent     `json:"systemIntent,omitempty"`
	OutputContexts     []Context         `json:"outputContexts,omitempty"`
	UserStorage        map[string]string `json:"userStorage,omitempty"`
}

// RichResponse is the platform-legal reply body: ordered items plus
// suggestion chips and at most one outbound link suggestion.
type RichResponse struct {
	Items             []Item             `json:"items"`
	Suggestions       []Suggestion       `json:"suggestions,omitempty"`
	LinkOutSuggestion *LinkOutSuggestion `json:"linkOutSuggestion,omitempty"`
}

// Item is one rich response element; exactly one field is set.
type Item struct {
	SimpleResponse *SimpleResponseItem `json:"simpleResponse,omitempty"`
	BasicCard      *BasicCard          `json:"basicCard,omitempty"`
	OrderUpdate    *OrderUpdate        `json:"orderUpdate,omitempty"`
}

// SimpleResponseItem is one chat bubble: spoken plus displayed text.
type SimpleResponseItem struct {
	TextToSpeech string `json:"textToSpeech,omitempty"`
	SSML         string `json:"ssml,omitempty"`
	DisplayText  string `json:"displayText,omitempty"`
}

// Suggestion is one quick-reply chip.
type Suggestion struct {
	Title string `json:"title"`
}

// LinkOutSuggestion is a chip that opens an external URL. The platform
// prepends "Open " to the destination name when displaying it.
type LinkOutSuggestion struct {
	DestinationName string `json:"destinationName"`
	URL             string `json:"url"`
}

// Image is a displayable image with alt text.
type Image struct {
	URL               string `json:"url"`
	AccessibilityText string `json:"accessibilityText,omitempty"`
}

// Button is a card action that opens a URL.
type Button struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// BasicCard is the single-item detail presentation. It is not selectable.
type BasicCard struct {
	Title    string   `json:"title,omitempty"`
	BodyText string   `json:"bodyText,omitempty"`
	Image    *Image   `json:"image,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

// ListItem is one selectable entry in a list or carousel.
type ListItem struct {
	Key         string   `json:"key"`
	Synonyms    []string `json:"synonyms,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Image       *Image   `json:"image,omitempty"`
}

// System intent identifiers for replies that require platform cooperation.
const (
	IntentOption           = "intent.option"
	IntentTransaction      = "intent.transaction_decision"
	IntentUpdatePermission = "intent.update_permission"
)

// SystemIntent asks the platform to drive a structured interaction.
// Exactly one of the data fields is set, matching Intent.
type SystemIntent struct {
	Intent      string               `json:"intent"`
	List        *ListSelect          `json:"listSelect,omitempty"`
	Carousel    *CarouselSelect      `json:"carouselSelect,omitempty"`
	Transaction *TransactionDecision `json:"transactionDecision,omitempty"`
	Permission  *PermissionRequest   `json:"permission,omitempty"`
}

// ListSelect presents options as a vertical list.
type ListSelect struct {
	Title string     `json:"title,omitempty"`
	Items []ListItem `json:"items"`
}

// CarouselSelect presents options as a horizontal carousel.
type CarouselSelect struct {
	Items []ListItem `json:"items"`
}

// Order is a proposed purchase presented for a transaction decision.
type Order struct {
	ID          string      `json:"id"`
	Description string      `json:"description,omitempty"`
	Items       []OrderItem `json:"items,omitempty"`
}

// OrderItem is one line of a proposed order.
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity,omitempty"`
	Price    string `json:"price,omitempty"`
}

// PaymentConfig describes how the proposed order would be paid.
type PaymentConfig struct {
	Type        string `json:"type,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// TransactionDecision pairs a proposed order with its payment configuration.
type TransactionDecision struct {
	Order         Order         `json:"order"`
	PaymentConfig PaymentConfig `json:"paymentConfig"`
}

// OrderUpdate reports a state change on a previously placed order.
type OrderUpdate struct {
	OrderID string `json:"orderId"`
	State   string `json:"state"`
	Label   string `json:"label,omitempty"`
}

// PermissionRequest asks the actor to grant a platform permission.
type PermissionRequest struct {
	// Intent is invoked when the platform delivers the granted update.
	Intent string `json:"intent"`
	Title  string `json:"title,omitempty"`
}

// AddSimpleResponse appends one spoken/displayed bubble.
func (rr *RichResponse) AddSimpleResponse(item SimpleResponseItem) *RichResponse {
	rr.Items = append(rr.Items, Item{SimpleResponse: &item})
	return rr
}

// AddSuggestion appends one quick-reply chip.
func (rr *RichResponse) AddSuggestion(title string) *RichResponse {
	rr.Suggestions = append(rr.Suggestions, Suggestion{Title: title})
	return rr
}

// AddSuggestionLink sets the outbound link chip. The platform renders at most
// one; a second call overwrites the first.
func (rr *RichResponse) AddSuggestionLink(title, url string) *RichResponse {
	rr.LinkOutSuggestion = &LinkOutSuggestion{DestinationName: title, URL: url}
	return rr
}

// AddBasicCard appends a detail card.
func (rr *RichResponse) AddBasicCard(card BasicCard) *RichResponse {
	rr.Items = append(rr.Items, Item{BasicCard: &card})
	return rr
}

// AddOrderUpdate appends an order state record.
func (rr *RichResponse) AddOrderUpdate(update OrderUpdate) *RichResponse {
	rr.Items = append(rr.Items, Item{OrderUpdate: &update})
	return rr
}

// SimpleResponses returns the simple response items in order.
func (rr *RichResponse) SimpleResponses() []SimpleResponseItem {
	var out []SimpleResponseItem
	for _, item := range rr.Items {
		if item.SimpleResponse != nil {
			out = append(out, *item.SimpleResponse)
		}
	}
	return out
}
