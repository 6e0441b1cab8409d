package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ikihsan/location-companyemails/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

const hrPageText = "Careers at Acme. We're hiring! Apply now for open positions."

func TestScoreRejection(t *testing.T) {
	t.Parallel()

	s := New("acme.com")

	tests := []struct {
		name    string
		address string
	}{
		{"support prefix", "support@acme.com"},
		{"info prefix", "info@acme.com"},
		{"noreply prefix", "noreply@acme.com"},
		{"noreply with separator", "no-reply@acme.com"},
		{"privacy prefix", "privacy@acme.com"},
		{"sales prefix", "sales@acme.com"},
		{"job board domain", "hr@linkedin.com"},
		{"job board subdomain", "careers@mail.naukri.com"},
		{"free mail domain", "jobs@gmail.com"},
		{"test domain", "hr@example.com"},
		{"ats vendor", "apply@greenhouse.io"},
		{"asset filename", "logo@2x.png"},
		{"local too short", "a@acme.com"},
		{"malformed", "not-an-email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := s.Score(tt.address, hrPageText)
			assert.True(t, res.Rejected, "expected rejection, got score %d", res.Score)
			if tt.address != "not-an-email" {
				assert.NotEmpty(t, res.RejectReason)
			}
		})
	}
}

func TestScoreRejectionIsBoundaryAnchored(t *testing.T) {
	t.Parallel()

	s := New("acme.com")

	// "hr-info" starts with "hr", not "info"; "information" alone is its
	// own rejected token, but "informatics" is not.
	res := s.Score("hr-info@acme.com", "")
	assert.False(t, res.Rejected)
	assert.True(t, res.IsHRContact)

	res = s.Score("salesh@acme.com", "")
	assert.False(t, res.Rejected, "token must not match mid-word")
}

func TestScoreHRContacts(t *testing.T) {
	t.Parallel()

	s := New("acme.com")

	tests := []struct {
		address  string
		minScore int
		conf     model.Confidence
	}{
		{"hr@acme.com", 170, model.ConfidenceHigh},
		{"careers@acme.com", 165, model.ConfidenceHigh},
		{"jobs@acme.com", 165, model.ConfidenceHigh},
		{"talent@acme.com", 155, model.ConfidenceHigh},
		{"hiring.team@acme.com", 155, model.ConfidenceHigh},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			t.Parallel()
			res := s.Score(tt.address, "")
			require.False(t, res.Rejected)
			assert.True(t, res.IsHRContact)
			assert.True(t, res.DomainMatches)
			assert.GreaterOrEqual(t, res.Score, tt.minScore)
			assert.Equal(t, tt.conf, res.Confidence)
		})
	}
}

func TestScoreBonuses(t *testing.T) {
	t.Parallel()

	s := New("acme.com")

	// Bare name on the company domain: 50 domain + 40 person + 20 corporate.
	plain := s.Score("rkumar@acme.com", "")
	require.False(t, plain.Rejected)
	assert.Equal(t, 110, plain.Score)
	assert.False(t, plain.IsHRContact)

	// Up to three trailing digits still read as a person.
	numbered := s.Score("rahul123@acme.com", "")
	require.False(t, numbered.Rejected)
	assert.Equal(t, 110, numbered.Score)
	assert.Equal(t, model.ConfidenceHigh, numbered.Confidence)

	// Four digits do not: 50 domain + 20 corporate only.
	coded := s.Score("rkumar2024@acme.com", "")
	require.False(t, coded.Rejected)
	assert.Equal(t, 70, coded.Score)
	assert.Equal(t, model.ConfidenceMedium, coded.Confidence)

	// firstname.lastname works the same way.
	person := s.Score("rahul.kumar@acme.com", "")
	require.False(t, person.Rejected)
	assert.Equal(t, 110, person.Score)
	assert.Equal(t, model.ConfidenceHigh, person.Confidence)

	// HR page text adds 30.
	onHRPage := s.Score("rkumar@acme.com", hrPageText)
	assert.Equal(t, 140, onHRPage.Score)

	// Regional TLD bonus, no domain match.
	regional := s.Score("rkumar@acme.co.in", "")
	assert.Equal(t, 70, regional.Score)
	assert.False(t, regional.DomainMatches)
}

func TestScoreFloorAndBuckets(t *testing.T) {
	t.Parallel()

	s := New("")

	// Free-mail-looking host and a local part shaped like a machine
	// account: no bonuses apply, score is floored.
	res := s.Score("mx-01@gmailhosting.net", "")
	require.False(t, res.Rejected)
	assert.Equal(t, 10, res.Score)
	assert.Equal(t, model.ConfidenceLow, res.Confidence)

	assert.Equal(t, model.ConfidenceMedium, bucket(50))
	assert.Equal(t, model.ConfidenceLow, bucket(49))
	assert.Equal(t, model.ConfidenceHigh, bucket(100))
}

func TestScoreSubstringHalfBonus(t *testing.T) {
	t.Parallel()

	s := New("acme.com")

	// "myhrdesk" contains "hr" mid-word: half of 100, not the full bonus.
	res := s.Score("myhrdesk@acme.com", "")
	require.False(t, res.Rejected)
	assert.True(t, res.IsHRContact)
	// 50 half-bonus + 50 domain + 40 person + 20 corporate.
	assert.Equal(t, 160, res.Score)
}

func TestIsHRPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"two indicators", "Join our team, we're hiring engineers", true},
		{"careers page", "Careers and open positions at Acme", true},
		{"one indicator only", "Contact our job desk", false},
		{"unrelated page", "Our products ship worldwide", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsHRPage(tt.text))
		})
	}
}
