package workflow

import (
	"sort"

	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/sirupsen/logrus"
)

// ApplyResult carries the corrected lines plus the match accounting a
// run reports. Unmatched keys are normalized product names seen on
// correctable lines that no price list covers.
type ApplyResult struct {
	Lines       []models.TransferLine
	CorrectedPT int
	CorrectedAG int
	Passthrough int
	UnmatchedPT []string
	UnmatchedAG []string
}

// ApplyPrices replaces line unit costs with the authoritative price for
// the line's origin warehouse. Each line is corrected from exactly one
// list: finished-goods lines from the PT list, general-warehouse lines
// from the AG list. Lines from any other origin pass through untouched.
// Pre-correction values are preserved once; running the engine again on
// its own output yields identical lines.
func ApplyPrices(lines []models.TransferLine, pt, ag *models.PriceMap, cfg *config.ReconciliationConfig, logger *logrus.Logger) ApplyResult {
	res := ApplyResult{Lines: lines}
	unmatchedPT := map[string]bool{}
	unmatchedAG := map[string]bool{}

	for i := range lines {
		l := &lines[i]
		if !l.Corrected {
			l.CostBefore = l.Cost
			l.UnitCostBefore = l.UnitCost
		}

		var prices *models.PriceMap
		switch l.Origin() {
		case models.OriginFinishedGoods:
			prices = pt
		case models.OriginGeneral:
			prices = ag
		default:
			res.Passthrough++
			continue
		}

		key := models.NormalizeProduct(l.Product)
		price, ok := prices.Price(key)
		if !ok {
			// Alias fallback only after the raw key misses.
			if alias := cfg.ResolveAlias(key); alias != key {
				price, ok = prices.Price(alias)
			}
		}
		if !ok {
			if l.Origin() == models.OriginFinishedGoods {
				unmatchedPT[key] = true
			} else {
				unmatchedAG[key] = true
			}
			continue
		}

		l.UnitCost = price
		l.Cost = price.Mul(l.Quantity)
		l.Corrected = true
		if l.Origin() == models.OriginFinishedGoods {
			res.CorrectedPT++
		} else {
			res.CorrectedAG++
		}
	}

	res.UnmatchedPT = sortedKeys(unmatchedPT)
	res.UnmatchedAG = sortedKeys(unmatchedAG)
	logUnmatched(logger, "PT", res.UnmatchedPT, cfg.UnmatchedPreviewLimit)
	logUnmatched(logger, "AG", res.UnmatchedAG, cfg.UnmatchedPreviewLimit)
	return res
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func logUnmatched(logger *logrus.Logger, scope string, keys []string, previewLimit int) {
	if logger == nil || len(keys) == 0 {
		return
	}
	preview := keys
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}
	logger.WithFields(logrus.Fields{
		"scope":   scope,
		"count":   len(keys),
		"preview": preview,
	}).Warn("products without authoritative price")
}
