// Playwright-backed implementation of Driver plus the session setup calls
// (sign-in, search, filters) the pipeline runs before handing the session to
// the pagination controller. All site selectors live in this file only.

package driver

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	jobsHomeURL = "https://www.linkedin.com/jobs/"

	resultsContainerSel = `div[componentkey="SearchResultsMainContent"]`
	jobCardSel          = `div[data-view-name="job-search-job-card"] div[role="button"]`
	nextButtonSel       = `button[data-testid*="pagination-controls-next-button-visible"]`
	applyButtonSel      = `a[data-view-name="job-apply-button"]`
)

type Options struct {
	Headless    bool
	Tracing     bool
	TracePath   string
	UserDataDir string
}

type PlaywrightDriver struct {
	pw         *playwright.Playwright
	browserCtx playwright.BrowserContext
	page       playwright.Page
	opts       Options
}

// NewPlaywrightDriver starts Playwright and launches a persistent Chromium
// context so the signed-in session survives between runs.
func NewPlaywrightDriver(opts Options) (*PlaywrightDriver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browserCtx, err := pw.Chromium.LaunchPersistentContext(opts.UserDataDir, playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless:  playwright.Bool(opts.Headless),
		UserAgent: playwright.String("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"),
		Viewport:  &playwright.Size{Width: 1920, Height: 1280},
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--no-sandbox",
			"--disable-dev-shm-usage",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch browser context: %w", err)
	}

	if opts.Tracing {
		if err := browserCtx.Tracing().Start(playwright.TracingStartOptions{
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
		}); err != nil {
			log.Printf("⚠️ Could not start tracing: %v", err)
		}
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		pw.Stop()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	return &PlaywrightDriver{pw: pw, browserCtx: browserCtx, page: page, opts: opts}, nil
}

// SignIn opens the jobs portal and authenticates when a sign-in button is
// visible. A persistent context that is already logged in needs nothing.
func (d *PlaywrightDriver) SignIn(email, password string) error {
	if _, err := d.page.Goto(jobsHomeURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return fmt.Errorf("failed to load jobs portal: %w", err)
	}

	signIn := d.page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: "Sign in"})
	visible, _ := signIn.First().IsVisible()
	if !visible {
		log.Println("✅ Sign-in button not found. Session already authenticated.")
		return nil
	}

	if email == "" || password == "" {
		return fmt.Errorf("sign-in required but credentials are not set")
	}

	log.Println("🔑 Sign-in button detected. Submitting credentials...")
	if err := d.page.GetByLabel("Email or phone").Fill(email); err != nil {
		return fmt.Errorf("failed to fill email: %w", err)
	}
	if err := d.page.GetByLabel("Password").First().Fill(password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}
	if err := signIn.First().Click(); err != nil {
		return fmt.Errorf("failed to submit sign-in: %w", err)
	}
	log.Println("✅ Credentials submitted.")
	return nil
}

// Search fills the search box with "<keyword> in <city>" and submits.
func (d *PlaywrightDriver) Search(keyword, city string) error {
	box := d.page.GetByPlaceholder("Describe the job you want")
	if err := box.Fill(keyword + " in " + city); err != nil {
		return fmt.Errorf("failed to fill search box: %w", err)
	}
	if err := box.Press("Enter"); err != nil {
		return fmt.Errorf("failed to submit search: %w", err)
	}
	return nil
}

// SetDistance applies the radius filter. The slider only accepts multiples
// of five, so the value is rounded first.
func (d *PlaywrightDriver) SetDistance(km int) error {
	km = ((km + 2) / 5) * 5
	log.Printf("📍 Setting location filter: %dkm", km)

	marker := d.page.Locator("svg#location-marker-small")
	if err := marker.WaitFor(playwright.LocatorWaitForOptions{Timeout: playwright.Float(15000)}); err != nil {
		return fmt.Errorf("location filter control not found: %w", err)
	}
	if err := marker.Click(); err != nil {
		return fmt.Errorf("failed to open location filter: %w", err)
	}
	if err := d.page.Locator("svg#edit-small").Click(); err != nil {
		return fmt.Errorf("failed to open distance editor: %w", err)
	}
	slider := d.page.Locator(`input[type="range"][aria-label^="Slider"]`)
	if err := slider.Fill(fmt.Sprintf("%d", km)); err != nil {
		return fmt.Errorf("failed to set distance slider: %w", err)
	}
	time.Sleep(500 * time.Millisecond)
	return d.clickShowResults()
}

// FilterPeriod restricts results to the given posting period. Unknown values
// fall back to "Past 24 hours".
func (d *PlaywrightDriver) FilterPeriod(period string) error {
	valid := map[string]bool{"Past 24 hours": true, "Past week": true, "Past month": true}
	if !valid[period] {
		log.Printf("⚠️ Invalid period %q. Defaulting to 'Past 24 hours'.", period)
		period = "Past 24 hours"
	}

	if err := d.page.GetByLabel("Date posted").Locator("..").Click(); err != nil {
		return fmt.Errorf("failed to open date filter: %w", err)
	}
	if err := d.page.GetByRole(*playwright.AriaRoleRadio, playwright.PageGetByRoleOptions{Name: period}).Click(); err != nil {
		return fmt.Errorf("failed to select period %q: %w", period, err)
	}
	return d.clickShowResults()
}

func (d *PlaywrightDriver) clickShowResults() error {
	return d.page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: "Show results"}).Click()
}

func (d *PlaywrightDriver) WaitForResults(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.page.Locator(resultsContainerSel).WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (d *PlaywrightDriver) Cards() ([]Card, error) {
	locators, err := d.page.Locator(jobCardSel).All()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate job cards: %w", err)
	}
	cards := make([]Card, len(locators))
	for i, loc := range locators {
		cards[i] = &playwrightCard{loc: loc}
	}
	return cards, nil
}

func (d *PlaywrightDriver) DetailText() (string, error) {
	details := d.page.GetByText("About the job").Locator("..").Locator("..")
	if err := details.WaitFor(playwright.LocatorWaitForOptions{Timeout: playwright.Float(10000)}); err != nil {
		return "", fmt.Errorf("detail panel did not load: %w", err)
	}
	text, err := details.InnerText()
	if err != nil {
		return "", fmt.Errorf("failed to read detail panel: %w", err)
	}
	return text, nil
}

func (d *PlaywrightDriver) DetailReposted() bool {
	count, err := d.page.GetByText("Reposted").Count()
	return err == nil && count > 0
}

func (d *PlaywrightDriver) JobURL() string {
	href, err := d.page.Locator(applyButtonSel).GetAttribute("href")
	if err != nil {
		return ""
	}
	return href
}

func (d *PlaywrightDriver) HasNextPage() (bool, error) {
	count, err := d.page.Locator(nextButtonSel).Count()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *PlaywrightDriver) NextPage() error {
	return d.page.Locator(nextButtonSel).First().Click()
}

// Close stops tracing if enabled, then tears the session down.
func (d *PlaywrightDriver) Close() error {
	if d.opts.Tracing {
		if err := d.browserCtx.Tracing().Stop(d.opts.TracePath); err != nil {
			log.Printf("⚠️ Failed to save trace: %v", err)
		} else {
			log.Printf("🔍 Trace saved to %s", d.opts.TracePath)
		}
	}
	if err := d.browserCtx.Close(); err != nil {
		return err
	}
	return d.pw.Stop()
}

type playwrightCard struct {
	loc playwright.Locator
}

func (c *playwrightCard) ScrollIntoView() error {
	return c.loc.ScrollIntoViewIfNeeded()
}

func (c *playwrightCard) Text() (string, error) {
	return c.loc.InnerText()
}

func (c *playwrightCard) Open() error {
	return c.loc.Click()
}
