package pages

import (
	"fmt"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/qaengine/webtest-harness/apiclient"
	"github.com/qaengine/webtest-harness/framework"
)

// DashboardPage reads the authenticated dashboard view. Open must be called
// (with a logged-in client) before the accessors return anything useful.
type DashboardPage struct {
	client *apiclient.Client
	logger framework.Logger

	loaded     bool
	lastStatus int
	content    ldvalue.Value
}

func NewDashboardPage(client *apiclient.Client, logger framework.Logger) *DashboardPage {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &DashboardPage{client: client, logger: logger}
}

// Open fetches the dashboard. A non-200 response is not an error; it is
// visible through Loaded and StatusCode.
func (p *DashboardPage) Open() error {
	resp, err := p.client.Get("/dashboard", nil)
	if err != nil {
		return fmt.Errorf("could not open dashboard: %w", err)
	}
	p.lastStatus = resp.StatusCode
	p.loaded = resp.StatusCode == 200
	if p.loaded {
		p.content, _ = resp.JSON()
	} else {
		p.content = ldvalue.Null()
	}
	return nil
}

// Loaded reports whether the last Open returned the dashboard.
func (p *DashboardPage) Loaded() bool {
	return p.loaded
}

// StatusCode returns the status of the last Open call.
func (p *DashboardPage) StatusCode() int {
	return p.lastStatus
}

// WelcomeMessage returns the greeting shown on the dashboard.
func (p *DashboardPage) WelcomeMessage() string {
	return p.content.GetByKey("welcome").StringValue()
}

// WidgetTitles returns the titles of the dashboard widgets in display order.
func (p *DashboardPage) WidgetTitles() []string {
	widgets := p.content.GetByKey("widgets")
	titles := make([]string, 0, widgets.Count())
	widgets.Enumerate(func(i int, _ string, v ldvalue.Value) bool {
		titles = append(titles, v.GetByKey("title").StringValue())
		return true
	})
	return titles
}

// UserCount returns the number of users the dashboard reports.
func (p *DashboardPage) UserCount() int {
	return p.content.GetByKey("userCount").IntValue()
}
