package notify

import (
	"fmt"

	"reputation-service/internal/models"
)

// Channel represents the delivery channel for an outbound message
type Channel string

const (
	ChannelSMS   Channel = "SMS"
	ChannelEmail Channel = "EMAIL"
)

// Built-in default templates, used whenever a client has not configured its
// own template for the notification kind.
const (
	defaultLeadWithBooking = "Hey {{name}}, thanks for reaching out to {{business}}! You can book a time that works for you here: {{booking_link}}"
	defaultLeadNoBooking   = "Hey {{name}}, thanks for reaching out to {{business}}! We'll get back to you as soon as we can."

	defaultMissedCallWithBooking = "Sorry we missed your call! This is {{business}}. You can book a time that works for you here: {{booking_link}}"
	defaultMissedCallNoBooking   = "Sorry we missed your call! This is {{business}}. We'll get back to you as soon as we can."

	defaultReviewRequest = "Hi {{name}}, thanks for choosing {{business}}! Would you mind taking a moment to leave us a review? {{review_link}}"
)

// Outbound is a single message the policy has decided to send
type Outbound struct {
	Channel  Channel
	To       string
	From     string
	FromName string
	Subject  string
	Body     string
	BodyHTML string
}

// Policy decides, per domain event, whether and what automated message to
// send. It holds no state across invocations; every decision is a pure
// function of the event payload and the resolved client configuration.
type Policy struct {
	// System-wide defaults used when a client has no outbound channel
	// identifier configured
	DefaultFromNumber string
	DefaultFromEmail  string
	DefaultFromName   string
}

// missedCallStatuses is the strict trigger set for missed-call capture.
// Completed and answered calls never generate a lead or an SMS.
var missedCallStatuses = map[string]bool{
	"no-answer": true,
	"busy":      true,
	"failed":    true,
}

// IsMissedCall reports whether a dial outcome counts as a missed call
func IsMissedCall(callStatus string) bool {
	return missedCallStatuses[callStatus]
}

// fromNumber resolves the outbound SMS number for a client
func (p *Policy) fromNumber(client *models.Client) string {
	if client.OutboundNumber != "" {
		return client.OutboundNumber
	}
	return p.DefaultFromNumber
}

// fromEmail resolves the outbound email address for a client
func (p *Policy) fromEmail(client *models.Client) string {
	if client.FromEmail != "" {
		return client.FromEmail
	}
	return p.DefaultFromEmail
}

// LeadMessage decides the auto-response for a new lead. Returns nil when the
// lead has no phone to respond to.
func (p *Policy) LeadMessage(client *models.Client, leadName, leadPhone string) *Outbound {
	if leadPhone == "" {
		return nil
	}

	defaultTemplate := defaultLeadNoBooking
	if client.BookingLink != "" {
		defaultTemplate = defaultLeadWithBooking
	}

	body := Render(SelectTemplate(client.MissedCallTemplate, defaultTemplate), map[string]string{
		FieldName:         leadName,
		FieldBusiness:     client.Name,
		FieldBusinessName: client.Name,
		FieldBooking:      client.BookingLink,
		FieldBookingLink:  client.BookingLink,
		FieldReviewLink:   client.ReviewLink,
	})

	return &Outbound{
		Channel: ChannelSMS,
		To:      leadPhone,
		From:    p.fromNumber(client),
		Body:    body,
	}
}

// MissedCallMessage decides the follow-up SMS for a missed inbound call
func (p *Policy) MissedCallMessage(client *models.Client, callerPhone string) *Outbound {
	if callerPhone == "" {
		return nil
	}

	defaultTemplate := defaultMissedCallNoBooking
	if client.BookingLink != "" {
		defaultTemplate = defaultMissedCallWithBooking
	}

	body := Render(SelectTemplate(client.MissedCallTemplate, defaultTemplate), map[string]string{
		FieldBusiness:     client.Name,
		FieldBusinessName: client.Name,
		FieldBooking:      client.BookingLink,
		FieldBookingLink:  client.BookingLink,
		FieldReviewLink:   client.ReviewLink,
	})

	return &Outbound{
		Channel: ChannelSMS,
		To:      callerPhone,
		From:    p.fromNumber(client),
		Body:    body,
	}
}

// ReviewRouting is the policy outcome for a submitted review
type ReviewRouting struct {
	// PublicLink is the client's public review link, set only when the
	// rating clears the public threshold (exactly 5)
	PublicLink string
	// OwnerNotification is the private feedback email for low ratings,
	// nil when the client has no owner email configured
	OwnerNotification *Outbound
}

// RouteReview routes a submitted review: ratings of 5 surface the public
// review link to the caller, ratings of 4 and below route to a private
// owner-feedback email. The owner email template is fixed, not
// tenant-configurable.
func (p *Policy) RouteReview(client *models.Client, review *models.Review) ReviewRouting {
	if review.Rating >= 5 {
		return ReviewRouting{PublicLink: client.ReviewLink}
	}

	if client.OwnerEmail == "" {
		return ReviewRouting{}
	}

	name := review.Name
	if name == "" {
		name = "A customer"
	}

	subject := fmt.Sprintf("New customer feedback for %s", client.Name)
	body := fmt.Sprintf("%s left a %d-star rating.\n\nComments:\n%s\n\nThis feedback was routed to you privately because the rating was below the public review threshold.",
		name, review.Rating, review.Comments)
	html := fmt.Sprintf("<p><strong>%s</strong> left a <strong>%d-star</strong> rating.</p><p>Comments:</p><blockquote>%s</blockquote><p>This feedback was routed to you privately because the rating was below the public review threshold.</p>",
		name, review.Rating, review.Comments)

	return ReviewRouting{
		OwnerNotification: &Outbound{
			Channel:  ChannelEmail,
			To:       client.OwnerEmail,
			From:     p.fromEmail(client),
			FromName: client.Name,
			Subject:  subject,
			Body:     body,
			BodyHTML: html,
		},
	}
}

// ReviewRequestMessage decides the review-request SMS for a customer. Returns
// nil when the client has no review link configured or no phone was provided;
// a review request without a destination link is pointless.
func (p *Policy) ReviewRequestMessage(client *models.Client, customerName, customerPhone string) *Outbound {
	if client.ReviewLink == "" || customerPhone == "" {
		return nil
	}

	body := Render(SelectTemplate(client.ReviewRequestTemplate, defaultReviewRequest), map[string]string{
		FieldName:         customerName,
		FieldBusiness:     client.Name,
		FieldBusinessName: client.Name,
		FieldBooking:      client.BookingLink,
		FieldBookingLink:  client.BookingLink,
		FieldReviewLink:   client.ReviewLink,
	})

	return &Outbound{
		Channel: ChannelSMS,
		To:      customerPhone,
		From:    p.fromNumber(client),
		Body:    body,
	}
}

// AutoReviewMessage decides the review-request SMS sent when a new customer
// contact is created. Same selection rule as a manual review request, gated
// on the client's auto-review flag.
func (p *Policy) AutoReviewMessage(client *models.Client, contact *models.CustomerContact) *Outbound {
	if !client.AutoReview {
		return nil
	}
	return p.ReviewRequestMessage(client, contact.Name, contact.Phone)
}
