package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Acme Software | Home</title>
	<script>var tracking = "noise";</script>
	<style>body { color: red; }</style>
	<script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@type": "Organization",
		"name": "Acme Software",
		"email": "HR@acme.com",
		"url": "https://acme.com"
	}
	</script>
</head>
<body>
	<h1>Welcome to Acme</h1>
	<nav>
		<a href="/about">About</a>
		<a href="/careers">Careers</a>
		<a href="/careers">Careers (footer)</a>
		<a href="https://acme.com/contact#form">Contact</a>
		<a href="https://www.acme.com/products">Products</a>
		<a href="https://jobs.lever.co/acme">Open roles</a>
		<a href="https://linkedin.com/company/acme">LinkedIn</a>
		<a href="https://twitter.com/acme">Twitter</a>
		<a href="mailto:hr@acme.com?subject=Hello">Email HR</a>
		<a href="tel:+911234567890">Call us</a>
		<a href="javascript:void(0)">Menu</a>
		<a href="#top">Top</a>
	</nav>
</body>
</html>`

func TestParsePage(t *testing.T) {
	t.Parallel()

	p, err := Parse("https://acme.com/", samplePage)
	require.NoError(t, err)

	assert.Equal(t, "Acme Software | Home", p.Title)
	assert.Contains(t, p.Text, "Welcome to Acme")
	assert.NotContains(t, p.Text, "tracking", "script content must not leak into text")
	assert.NotContains(t, p.Text, "color: red")

	// Same-host links only, absolute, deduplicated, fragment stripped.
	assert.Equal(t, []string{
		"https://acme.com/about",
		"https://acme.com/careers",
		"https://acme.com/contact",
		"https://www.acme.com/products",
	}, p.Links)

	assert.Equal(t, []string{"hr@acme.com"}, p.MailtoTargets)
	assert.Equal(t, []string{"+911234567890"}, p.PhoneNumbers)
	assert.Equal(t, "https://linkedin.com/company/acme", p.LinkedInURL)
}

func TestParseClassifiesCareersLinks(t *testing.T) {
	t.Parallel()

	p, err := Parse("https://acme.com/", samplePage)
	require.NoError(t, err)

	// Both the on-site careers page and the hosted board qualify; the
	// hosted board matches on anchor text ("open roles" has no hint, the
	// URL path "jobs" does).
	assert.Contains(t, p.CareersLinks, "https://acme.com/careers")
	assert.Contains(t, p.CareersLinks, "https://jobs.lever.co/acme")
	assert.NotContains(t, p.CareersLinks, "https://acme.com/about")
}

func TestParseJobPostings(t *testing.T) {
	t.Parallel()

	html := `<html><head>
	<script type="application/ld+json">
	[
		{
			"@type": "JobPosting",
			"title": "Senior Go Developer",
			"hiringOrganization": {"@type": "Organization", "name": "Acme Software"},
			"jobLocation": {"@type": "Place", "address": {"addressLocality": "Kochi", "addressRegion": "Kerala"}}
		},
		{"@type": "JobPosting", "title": "Designer"}
	]
	</script>
	<script type="application/ld+json">not valid json {{{</script>
	</head><body><p>Open roles below.</p></body></html>`

	p, err := Parse("https://acme.com/careers", html)
	require.NoError(t, err)

	assert.Equal(t, "Open roles below.", p.Text)
	assert.NotContains(t, p.Text, "JobPosting", "script bodies stay out of visible text")
	require.Len(t, p.JobPostings, 2)
	assert.Equal(t, JobPosting{
		Title:    "Senior Go Developer",
		OrgName:  "Acme Software",
		Location: "Kochi, Kerala",
	}, p.JobPostings[0])
	assert.Equal(t, "Designer", p.JobPostings[1].Title)
}

func TestParseGraphWrappedOrganization(t *testing.T) {
	t.Parallel()

	html := `<html><head>
	<script type="application/ld+json">
	{"@context": "https://schema.org", "@graph": [
		{"@type": "Organization", "name": "Acme", "email": "Jobs@Acme.com"}
	]}
	</script>
	</head><body></body></html>`

	p, err := Parse("https://acme.com", html)
	require.NoError(t, err)

	require.Len(t, p.Organizations, 1)
	assert.Equal(t, "Acme", p.Organizations[0].Name)
	assert.Equal(t, "jobs@acme.com", p.Organizations[0].Email)
}

func TestParseBadInputs(t *testing.T) {
	t.Parallel()

	_, err := Parse("://not-a-url", "<html></html>")
	assert.Error(t, err)

	p, err := Parse("https://acme.com", "")
	require.NoError(t, err)
	assert.Empty(t, p.Links)
	assert.Empty(t, p.Text)
}
