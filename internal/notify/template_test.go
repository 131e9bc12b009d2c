package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderDoubleBrace(t *testing.T) {
	out := Render("Hi {{name}}, welcome to {{business}}!", map[string]string{
		"name":     "Sam",
		"business": "Acme Plumbing",
	})
	assert.Equal(t, "Hi Sam, welcome to Acme Plumbing!", out)
}

func TestRenderSingleBrace(t *testing.T) {
	out := Render("Hi {name}, book here: {booking_link}", map[string]string{
		"name":         "Sam",
		"booking_link": "https://acme.example/book",
	})
	assert.Equal(t, "Hi Sam, book here: https://acme.example/book", out)
}

func TestRenderMissingCommonFieldSubstitutesEmpty(t *testing.T) {
	assert.Equal(t, "Hi ", Render("Hi {{name}}", map[string]string{}))
	assert.Equal(t, "Hey , thanks for reaching out", Render("Hey {name}, thanks for reaching out", nil))
}

func TestRenderUnknownPlaceholderLeftAsIs(t *testing.T) {
	out := Render("Your code is {{coupon_code}}", map[string]string{"name": "Sam"})
	assert.Equal(t, "Your code is {{coupon_code}}", out)
}

func TestRenderFieldValueContainingTokenStaysLiteral(t *testing.T) {
	// A customer-supplied value that looks like a token must never be
	// re-substituted, no matter how often rendering runs.
	for i := 0; i < 50; i++ {
		out := Render("Hi {{name}}, leave a review: {{review_link}}", map[string]string{
			"name":        "{review_link}",
			"review_link": "https://g.example/review/acme",
		})
		assert.Equal(t, "Hi {review_link}, leave a review: https://g.example/review/acme", out)
	}
}

func TestRenderEmptyTemplate(t *testing.T) {
	assert.Equal(t, "", Render("", map[string]string{"name": "Sam"}))
}

func TestSelectTemplate(t *testing.T) {
	assert.Equal(t, "Hi {{name}}!", SelectTemplate("Hi {{name}}!", "Hello {{name}}!"))
	assert.Equal(t, "Hello {{name}}!", SelectTemplate("", "Hello {{name}}!"))
	assert.Equal(t, "Hello {{name}}!", SelectTemplate("   ", "Hello {{name}}!"))
}

func TestTenantTemplateWinsOverDefault(t *testing.T) {
	tmpl := SelectTemplate("Hi {{name}}!", "Hello {{name}}!")
	assert.Equal(t, "Hi Sam!", Render(tmpl, map[string]string{"name": "Sam"}))
}
