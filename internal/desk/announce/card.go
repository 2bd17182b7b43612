package announce

import (
	"fmt"

	"github.com/bitfantasy/assetdesk/internal/desk/service"
)

// InteractiveCard chat message card
type InteractiveCard struct {
	Config   *CardConfig   `json:"config,omitempty"`
	Header   *CardHeader   `json:"header,omitempty"`
	Elements []CardElement `json:"elements,omitempty"`
}

type CardConfig struct {
	WideScreenMode bool `json:"wide_screen_mode"`
}

type CardHeader struct {
	Title    CardText `json:"title"`
	Template string   `json:"template,omitempty"` // blue/green/red/orange
}

// CardText Tag is plain_text or lark_md.
type CardText struct {
	Tag     string `json:"tag"`
	Content string `json:"content"`
}

// CardElement div, hr or note
type CardElement struct {
	Tag      string        `json:"tag"`
	Text     *CardText     `json:"text,omitempty"`
	Fields   []CardField   `json:"fields,omitempty"`
	Elements []CardElement `json:"elements,omitempty"`
	Content  string        `json:"content,omitempty"`
}

type CardField struct {
	IsShort bool     `json:"is_short"`
	Text    CardText `json:"text"`
}

func field(label, value string) CardField {
	return CardField{IsShort: true, Text: CardText{Tag: "lark_md", Content: fmt.Sprintf("**%s**\n%s", label, value)}}
}

// NewAcceptanceCard summarises an accepted vendor quote.
func NewAcceptanceCard(a service.Acceptance) InteractiveCard {
	fields := []CardField{
		field("Quote request", a.RequestTitle),
		field("Vendor", a.VendorName),
		field("Amount", fmt.Sprintf("$%.2f", a.Amount)),
		field("Reviewed by", a.ReviewerID),
	}

	footer := "No complaint is waiting on this order."
	if a.ComplaintID != "" {
		fields = append(fields, field("Complaint", a.ComplaintID))
		if a.Deadline != "" {
			fields = append(fields, field("Expected delivery", a.Deadline))
		}
		footer = "The employee has been notified of the delivery deadline."
	}

	return InteractiveCard{
		Config: &CardConfig{WideScreenMode: true},
		Header: &CardHeader{
			Title:    CardText{Tag: "plain_text", Content: "Vendor quote accepted"},
			Template: "green",
		},
		Elements: []CardElement{
			{Tag: "div", Fields: fields},
			{Tag: "hr"},
			{
				Tag: "note",
				Elements: []CardElement{
					{Tag: "plain_text", Content: footer},
				},
			},
		},
	}
}
