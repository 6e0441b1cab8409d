package scorer

// Catalogs driving email classification. These are data, not logic: tuned
// lists of local-part tokens, domains, and context markers observed across
// job boards and company sites.

// hrPrefix is one entry of the ordered HR local-part priority table.
type hrPrefix struct {
	token string
	bonus int
}

// hrPrefixes is scanned in order; the first exact/prefix match wins its full
// bonus, otherwise the highest-priority substring match wins half.
var hrPrefixes = []hrPrefix{
	{"hr", 100},
	{"jobs", 95},
	{"careers", 95},
	{"recruiting", 90},
	{"recruitment", 90},
	{"recruiter", 90},
	{"hrteam", 90},
	{"talent", 85},
	{"hiring", 85},
	{"career", 85},
	{"apply", 80},
	{"joinus", 80},
	{"join", 75},
	{"campus", 75},
	{"work", 70},
	{"opportunities", 70},
	{"employment", 70},
	{"internship", 70},
	{"interns", 70},
	{"people", 65},
	{"team", 60},
	{"staffing", 60},
}

// rejectedPrefixes are local-part tokens that never reach a recruiter.
// Matching is boundary-anchored: the local part must equal the token or
// start with it followed by a separator, so "hr-info" survives.
var rejectedPrefixes = []string{
	// Generic support.
	"support", "help", "helpdesk", "service", "customerservice",
	"customersupport", "techsupport", "contact", "feedback",
	"enquiry", "enquiries", "inquiry", "queries", "query", "hello", "hi",
	// System/automated.
	"noreply", "no-reply", "donotreply", "do-not-reply", "mailer",
	"mailer-daemon", "postmaster", "webmaster", "hostmaster", "admin",
	"administrator", "root", "system", "notification", "notifications",
	"alert", "alerts", "bot", "newsletter", "news", "updates",
	"marketing", "promo", "promotions", "unsubscribe", "bounce",
	"spam", "abuse",
	// Privacy/legal.
	"privacy", "legal", "compliance", "gdpr", "dpo", "dataprotection",
	"security", "infosec",
	// Sales/billing.
	"sales", "billing", "accounts", "invoice", "payment", "payments",
	"orders", "order", "shop", "store",
	// General info.
	"info", "information", "general", "office", "reception",
	"media", "press", "pr", "communications",
	// Technical/partner.
	"dev", "developer", "devops", "api", "bugs", "issues",
	"partners", "partnership", "partner", "vendor", "vendors",
	"demo", "trial", "signup", "register", "subscribe",
}

// rejectedDomains can never yield a company-specific recruiter: job boards,
// free-mail providers, ATS vendors, and test domains.
var rejectedDomains = []string{
	// Job boards.
	"indeed.com", "glassdoor.com", "linkedin.com", "naukri.com",
	"monster.com", "shine.com", "timesjobs.com", "careerbuilder.com",
	"ziprecruiter.com", "simplyhired.com", "dice.com", "wellfound.com",
	"instahyre.com", "cutshort.io", "hirist.tech", "angel.co",
	"freshersworld.com",
	// Free consumer mail.
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "live.com",
	"aol.com", "mail.com", "protonmail.com", "icloud.com", "msn.com",
	"ymail.com", "rediffmail.com",
	// Test/placeholder.
	"example.com", "example.org", "example.net", "test.com", "localhost",
	"mailinator.com", "tempmail.com", "throwaway.email",
	// Service providers and ATS vendors.
	"sentry.io", "github.com", "atlassian.com", "slack.com",
	"zendesk.com", "freshdesk.com", "intercom.com", "hubspot.com",
	"salesforce.com", "mailchimp.com", "sendgrid.com", "wixpress.com",
	"w3.org", "taleo.com", "workday.com", "icims.com", "lever.co",
	"greenhouse.io", "bamboohr.com",
}

// freeMailProviders used for the corporate-domain bonus (a subset of the
// rejected list kept separate because rejection already removed them; this
// guards alternative spellings like gmail.co.in-style vanity hosts).
var freeMailProviders = []string{"gmail", "yahoo", "hotmail", "outlook"}

// hrPageIndicators are keywords whose presence classifies a page as
// HR-related when at least two of them appear in its text.
var hrPageIndicators = []string{
	"career", "job", "hiring", "recruit", "join us", "work with",
	"apply now", "open position", "vacancy", "opportunities",
	"talent", "human resource", "we're hiring",
}

// placeholderMarkers indicate that a nearby address is form boilerplate or
// an example, not a real contact.
var placeholderMarkers = []string{
	"placeholder", "example", "sample", "e.g.", "e.g:", "eg:",
	"for instance", "such as", "demo", "dummy",
	"enter your email", "your email here", "email address here",
	"type your", `input type="email"`, "input type='email'",
	"data-placeholder", "aria-placeholder", "enter email", "email format",
}
