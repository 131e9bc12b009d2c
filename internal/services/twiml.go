package services

import "encoding/xml"

// TwiML call-control documents returned to the telephony webhook. The caller
// is a phone switch, not an API client, so unresolvable tenants get a benign
// hang-up document instead of a JSON error.

// VoiceResponse is the root TwiML <Response> element
type VoiceResponse struct {
	XMLName xml.Name  `xml:"Response"`
	Dial    *DialVerb `xml:"Dial,omitempty"`
	Hangup  *struct{} `xml:"Hangup,omitempty"`
}

// DialVerb forwards the call to a number. Action receives the dial outcome
// (DialCallStatus) once the forwarded leg ends, which is how missed calls
// are detected.
type DialVerb struct {
	Action string `xml:"action,attr,omitempty"`
	Method string `xml:"method,attr,omitempty"`
	Number string `xml:",chardata"`
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// DialTwiML returns a TwiML document that forwards the call to number and
// reports the dial outcome to actionURL.
func DialTwiML(number, actionURL string) string {
	doc := VoiceResponse{
		Dial: &DialVerb{
			Action: actionURL,
			Method: "POST",
			Number: number,
		},
	}
	return marshalTwiML(doc)
}

// HangupTwiML returns a TwiML document that hangs up the call
func HangupTwiML() string {
	return marshalTwiML(VoiceResponse{Hangup: &struct{}{}})
}

func marshalTwiML(doc VoiceResponse) string {
	out, err := xml.Marshal(doc)
	if err != nil {
		// Marshalling a static struct cannot fail; keep the switch happy anyway
		return xmlHeader + "<Response><Hangup/></Response>"
	}
	return xmlHeader + string(out)
}
