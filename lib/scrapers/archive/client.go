package archive

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/FYIFriday/Smut-Wrapped/lib/telemetry"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/archive")

const DefaultBaseUrl = "https://archiveofourown.org"

// Fetcher is the one outbound capability the harvester needs: turn a url
// into an HTML document body. The production implementation is Client,
// tests substitute their own.
type Fetcher interface {
	Fetch(ctx context.Context, link string) (string, error)
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	// BaseUrl defaults to DefaultBaseUrl when empty.
	BaseUrl string
	// SessionCookie is an already-established "_otwarchive_session" value.
	// Without it the archive serves logged-out pages and the reading
	// history listing is inaccessible.
	SessionCookie string
}

func NewClient(opts ClientOptions) (*Client, error) {
	rawUrl := opts.BaseUrl
	if rawUrl == "" {
		rawUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(rawUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(rawUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/archive/http")

	if opts.SessionCookie != "" {
		client.SetCookie(&http.Cookie{
			Name:  "_otwarchive_session",
			Value: opts.SessionCookie,
		})
	}

	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}
	return c, nil
}

func (c *Client) Fetch(ctx context.Context, link string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return "", err
	}
	if res.StatusCode() >= 400 {
		err := fmt.Errorf("GET %s: status %d", link, res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad status")
		return "", err
	}

	return string(res.Body()), nil
}

// ListingUrl builds the paginated url of a user's history or bookmarks
// index. SourceBoth is not a page of its own and panics here.
func ListingUrl(username string, source Source, page int) string {
	switch source {
	case SourceHistory:
		return fmt.Sprintf("/users/%s/readings?page=%d", url.PathEscape(username), page)
	case SourceBookmarks:
		return fmt.Sprintf("/users/%s/bookmarks?page=%d", url.PathEscape(username), page)
	}
	panic(fmt.Sprintf("no listing url for source %q", source))
}

// WorkUrl is the detail page of a single work.
func WorkUrl(workId string) string {
	return fmt.Sprintf("/works/%s?view_adult=true", workId)
}
