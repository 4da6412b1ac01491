package smartshell

import (
	"strings"

	"github.com/caseclub-lab/backend/pkg/api"
)

// Upstream marks top-ups inconsistently: sometimes only by a localized title,
// sometimes only by an item type flag. Both checks are OR'd, first match wins.
var depositTitleKeywords = []string{"пополнение", "deposit", "top-up"}
var depositItemTypes = []string{"deposit", "topup", "top_up"}

func paymentList(resp *api.Response) (api.Array, error) {
	if arr, err := resp.Array(); err == nil {
		return arr, nil
	}

	body, err := resp.JSON()
	if err != nil {
		return nil, err
	}

	return body.GetArray("payments")
}

// depositAmount reports the payment's positive amount if the payment is a
// genuine deposit, and false for refunds, negative entries, and everything
// that is not a top-up.
func depositAmount(payment api.JSON) (float64, bool) {
	if refunded, err := payment.GetBool("is_refunded"); err == nil && refunded {
		return 0, false
	}

	if !isDeposit(payment) {
		return 0, false
	}

	amount := firstNumber(payment, "amount", "sum")
	if amount <= 0 {
		return 0, false
	}

	return amount, true
}

func isDeposit(payment api.JSON) bool {
	title := strings.ToLower(firstString(payment, "title", "name"))
	for _, keyword := range depositTitleKeywords {
		if strings.Contains(title, keyword) {
			return true
		}
	}

	items, err := payment.GetArray("items")
	if err != nil {
		return false
	}

	for _, item := range items {
		itemType := strings.ToLower(firstString(item, "type"))
		for _, t := range depositItemTypes {
			if itemType == t {
				return true
			}
		}
	}

	return false
}

func paymentDate(payment api.JSON) string {
	return firstString(payment, "created_at", "date")
}

func firstString(j api.JSON, keys ...string) string {
	for _, key := range keys {
		if s, err := j.GetString(key); err == nil && s != "" {
			return s
		}
	}
	return ""
}

func firstNumber(j api.JSON, keys ...string) float64 {
	for _, key := range keys {
		if n, err := j.GetNumber(key); err == nil {
			return n
		}
	}
	return 0
}
