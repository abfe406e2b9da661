package ebay

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ebay-research/models"
)

const notAvailable = "N/A"

// placeholderTitle is the ghost card eBay puts at the top of every result list.
const placeholderTitle = "Shop on eBay"

// ParseResults extracts up to limit listings from a rendered search page.
// Elements that are missing become "N/A" (counts stay empty), and cards
// without a usable title are skipped.
func ParseResults(r io.Reader, keyword string, limit int, scrapedAt time.Time) ([]*models.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("ebay: parse html: %w", err)
	}

	var listings []*models.RawListing
	doc.Find("li.s-item").Not(".s-item__pl-on-bottom").EachWithBreak(func(i int, item *goquery.Selection) bool {
		if limit > 0 && i >= limit {
			return false
		}

		l := extractItem(item)
		if l.Title == notAvailable || strings.EqualFold(l.Title, placeholderTitle) {
			return true
		}
		l.SearchKeyword = keyword
		l.ScrapedAt = scrapedAt
		listings = append(listings, l)
		return true
	})

	return listings, nil
}

func extractItem(item *goquery.Selection) *models.RawListing {
	l := &models.RawListing{
		Title:    textOr(item.Find(".s-item__title").First(), notAvailable),
		RawPrice: textOr(item.Find(".s-item__price").First(), notAvailable),
		Seller:   textOr(item.Find(".s-item__seller-info-text").First(), notAvailable),
		Shipping: textOr(item.Find(".s-item__shipping").First(), notAvailable),
		URL:      attrOr(item.Find("a.s-item__link").First(), "href", notAvailable),
		ImageURL: attrOr(item.Find("img.s-item__image-img").First(), "src", notAvailable),
	}

	sold := item.Find(".s-item__hotness-count").First()
	if sold.Length() == 0 {
		sold = item.Find(".s-item__quantity-sold").First()
	}
	l.RawSold = textOr(sold, "")
	l.RawWatchers = textOr(item.Find(".s-item__watchers").First(), "")

	return l
}

func textOr(sel *goquery.Selection, fallback string) string {
	if sel.Length() == 0 {
		return fallback
	}
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return fallback
	}
	return text
}

func attrOr(sel *goquery.Selection, name, fallback string) string {
	if v, ok := sel.Attr(name); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
