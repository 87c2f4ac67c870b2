package uway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
	"golang.org/x/time/rate"

	"github.com/wonny/jungsi/backend/internal/contracts"
	"github.com/wonny/jungsi/backend/pkg/httputil"
	"github.com/wonny/jungsi/backend/pkg/logger"
)

// defaultRatioIndexURL is the UWAY portal page listing every university's ratio link
const defaultRatioIndexURL = "https://addon.jinhakapply.com/RatioV1/RatioH/S1000003HJ.html"

// crawlInterval spaces requests so the portal is never hammered
const crawlInterval = 300 * time.Millisecond

// LinkType classifies which ratio provider hosts a university's page
type LinkType string

const (
	LinkJinhakapply LinkType = "jinhakapply"
	LinkUwayapply   LinkType = "uwayapply"
	LinkOther       LinkType = "other"
)

// UniversityLink is one university entry on the ratio index page
type UniversityLink struct {
	Name string
	URL  string
	Type LinkType
}

// Client scrapes competition-rate pages from the UWAY/Jinhak ratio portals
// ⭐ SSOT: 경쟁률 크롤링은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	limiter    *rate.Limiter
	indexURL   string
}

// NewClient creates a new competition-rate crawler client
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		limiter:    rate.NewLimiter(rate.Every(crawlInterval), 1),
		indexURL:   defaultRatioIndexURL,
	}
}

// fetchDocument fetches one page and decodes it from EUC-KR
// 포털 페이지들은 전부 EUC-KR 인코딩
func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	decoded := transform.NewReader(resp.Body, korean.EUCKR.NewDecoder())
	body, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

var windowOpenRe = regexp.MustCompile(`window\.open\(['"]([^'"]+)['"]`)

// FetchUniversities collects every university's ratio-page link from the index
func (c *Client) FetchUniversities(ctx context.Context) ([]UniversityLink, error) {
	doc, err := c.fetchDocument(ctx, c.indexURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ratio index: %w", err)
	}

	var links []UniversityLink
	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		name := strings.Join(strings.Fields(cells.Eq(0).Text()), " ")
		if name == "" || name == "대학명" {
			return
		}

		anchor := cells.Eq(1).Find("a")
		if anchor.Length() == 0 {
			return
		}

		linkURL := ""
		if onclick, ok := anchor.Attr("onclick"); ok {
			if m := windowOpenRe.FindStringSubmatch(onclick); m != nil {
				linkURL = m[1]
			}
		}
		if linkURL == "" {
			href, _ := anchor.Attr("href")
			if href != "" && href != "#" && href != "javascript:;" {
				linkURL = href
			}
		}
		if linkURL == "" {
			return
		}
		if strings.HasPrefix(linkURL, "//") {
			linkURL = "https:" + linkURL
		}

		links = append(links, UniversityLink{
			Name: name,
			URL:  linkURL,
			Type: classifyLink(linkURL),
		})
	})

	c.logger.WithField("count", len(links)).Info("Collected university ratio links")
	return links, nil
}

func classifyLink(linkURL string) LinkType {
	switch {
	case strings.Contains(linkURL, "jinhakapply.com"):
		return LinkJinhakapply
	case strings.Contains(linkURL, "uwayapply.com"):
		return LinkUwayapply
	default:
		return LinkOther
	}
}

// FetchRates crawls one university's ratio page into competition-rate rows.
// uwayapply의 frameset 페이지는 실제 데이터 프레임 URL을 먼저 풀어낸다.
func (c *Client) FetchRates(ctx context.Context, link UniversityLink) ([]contracts.CompetitionRate, error) {
	pageURL := link.URL
	if link.Type == LinkUwayapply && strings.Contains(pageURL, "/power/") {
		resolved, err := c.resolveFrameURL(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		if resolved != "" {
			pageURL = resolved
		}
	}

	doc, err := c.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ratio page for %s: %w", link.Name, err)
	}

	rates := parseRatioPage(doc, link.Name)
	c.logger.WithFields(map[string]interface{}{
		"university": link.Name,
		"count":      len(rates),
	}).Debug("Fetched competition rates")
	return rates, nil
}

// resolveFrameURL extracts the powerMain frame source from a frameset page
func (c *Client) resolveFrameURL(ctx context.Context, framesetURL string) (string, error) {
	doc, err := c.fetchDocument(ctx, framesetURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch frameset: %w", err)
	}

	src, ok := doc.Find(`frame[name="powerMain"]`).Attr("src")
	if !ok || src == "" {
		return "", nil
	}

	switch {
	case strings.HasPrefix(src, "//"):
		return "http:" + src, nil
	case strings.HasPrefix(src, "http"):
		return src, nil
	}

	base, err := url.Parse(framesetURL)
	if err != nil {
		return "", fmt.Errorf("invalid frameset URL: %w", err)
	}
	ref, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("invalid frame src: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// parseRatioPage walks the h2/table layout shared by both providers.
// h2가 전형명, 뒤따르는 테이블이 그 전형의 모집단위 행들
func parseRatioPage(doc *goquery.Document, universityName string) []contracts.CompetitionRate {
	var rates []contracts.CompetitionRate
	now := time.Now()
	admissionType := ""

	doc.Find("h2, table").Each(func(i int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "h2" {
			text := strings.Join(strings.Fields(sel.Text()), " ")
			admissionType = strings.TrimSpace(strings.ReplaceAll(text, "경쟁률 현황", ""))
			return
		}
		if admissionType == "" {
			return
		}

		sel.Find("tr").Each(func(j int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 4 {
				return
			}

			first := strings.TrimSpace(cells.Eq(0).Text())
			if isSkippableRow(first) {
				return
			}

			var r contracts.CompetitionRate
			r.UniversityName = universityName
			r.AdmissionType = admissionType
			r.FetchedAt = now

			ratioText := strings.TrimSpace(cells.Eq(3).Text())
			if cells.Length() >= 5 {
				fifth := strings.TrimSpace(cells.Eq(4).Text())
				if strings.Contains(fifth, ":") {
					// 5컬럼: 단과대학, 모집단위, 모집인원, 지원인원, 경쟁률
					r.College = first
					r.RecruitmentName = strings.TrimSpace(cells.Eq(1).Text())
					r.Quota = parseCount(cells.Eq(2).Text())
					r.Applicants = parseCount(cells.Eq(3).Text())
					r.Rate = parseRatio(fifth)
					rates = append(rates, r)
					return
				}
			}
			if strings.Contains(ratioText, ":") {
				// 4컬럼: 모집단위, 모집인원, 지원인원, 경쟁률
				r.RecruitmentName = first
				r.Quota = parseCount(cells.Eq(1).Text())
				r.Applicants = parseCount(cells.Eq(2).Text())
				r.Rate = parseRatio(ratioText)
				rates = append(rates, r)
			}
		})
	})

	return rates
}

func isSkippableRow(first string) bool {
	return first == "" || first == "모집단위" || first == "대학" ||
		first == "총계" || first == "구분" || strings.Contains(first, "합계")
}

func parseCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, _ := strconv.Atoi(s)
	return n
}

// parseRatio parses "12.34 : 1" style ratio cells
func parseRatio(s string) float64 {
	parts := strings.SplitN(s, ":", 2)
	v := strings.ReplaceAll(strings.TrimSpace(parts[0]), ",", "")
	f, _ := strconv.ParseFloat(v, 64)
	return f
}
