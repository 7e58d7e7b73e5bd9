package bot

import (
	"errors"
	"fmt"
	"time"

	"github.com/eddiefleurent/optioneer/internal/broker"
	"github.com/eddiefleurent/optioneer/internal/models"
	"github.com/eddiefleurent/optioneer/internal/strategy"
)

// currentPrice fetches the quote, converting failures into a failed result.
func (b *Bot) currentPrice(symbol string) (float64, *models.TradeResult) {
	price, err := b.broker.GetCurrentPrice(symbol)
	if err != nil {
		r := b.failedResult(symbol, fmt.Sprintf("Data error: %v", err))
		return 0, &r
	}
	return price, nil
}

// chainStrikes fetches the chain at expiration and extracts its strikes,
// converting failures into a failed result.
func (b *Bot) chainStrikes(symbol string, expiration time.Time) ([]float64, *models.TradeResult) {
	chain, err := b.broker.GetOptionChain(symbol, expiration)
	if err != nil {
		r := b.failedResult(symbol, fmt.Sprintf("Option chain unavailable: %v", err))
		return nil, &r
	}
	strikes := broker.Strikes(chain)
	if len(strikes) == 0 {
		r := b.failedResult(symbol, "No option strikes available in option chain")
		return nil, &r
	}
	return strikes, nil
}

// sharesOwned returns the current share count, zero when no position exists.
func (b *Bot) sharesOwned(symbol string) (int, error) {
	pos, err := b.broker.GetPosition(symbol)
	if err != nil {
		return 0, err
	}
	if pos == nil {
		return 0, nil
	}
	return pos.Quantity, nil
}

// submitted converts an order outcome into a trade result with the given
// strike and quantity mapping.
func (b *Bot) submitted(symbol string, result *broker.OrderResult, short, long float64, expiration time.Time, quantity int) models.TradeResult {
	tr := models.TradeResult{
		Symbol:      symbol,
		Success:     result.Success,
		OrderID:     result.OrderID,
		ShortStrike: short,
		LongStrike:  long,
		Expiration:  expiration,
		Quantity:    quantity,
		Timestamp:   b.now(),
	}
	if !result.Success {
		tr.ErrorMessage = result.ErrorMessage
	}
	return tr
}

func (b *Bot) processSpread(symbol string) ([]models.TradeResult, error) {
	price, fail := b.currentPrice(symbol)
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	strikes, fail := b.chainStrikes(symbol, b.spreadCalc.Expiration(b.now()))
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	params, err := b.spreadCalc.Calculate(price, strikes, b.now())
	if err != nil {
		leg := "short"
		var longErr *strategy.LongStrikeError
		if errors.As(err, &longErr) {
			leg = "long"
		}
		return []models.TradeResult{b.failedResult(symbol,
			fmt.Sprintf("Cannot find suitable %s strike: %v", leg, err))}, nil
	}
	configured := b.cfg.Strategy.Spread.SpreadWidth
	if params.SpreadWidth < configured/2 {
		return []models.TradeResult{b.failedResult(symbol, fmt.Sprintf(
			"Actual spread width ($%.2f) is too narrow compared to configured ($%.2f)",
			params.SpreadWidth, configured))}, nil
	}
	if err := params.Validate(b.now()); err != nil {
		return []models.TradeResult{b.failedResult(symbol,
			fmt.Sprintf("Spread validation failed: %v", err))}, nil
	}
	return []models.TradeResult{b.orders.SubmitSpread(params, symbol)}, nil
}

func (b *Bot) processCollar(symbol string) ([]models.TradeResult, error) {
	shares := b.cfg.Strategy.Collar.SharesPerSymbol
	if shares < 100 {
		return []models.TradeResult{b.failedResult(symbol,
			fmt.Sprintf("Insufficient shares: need 100, have %d", shares))}, nil
	}
	price, fail := b.currentPrice(symbol)
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	strikes, fail := b.chainStrikes(symbol, b.collarCalc.Expiration(b.now()))
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	params, err := b.collarCalc.Calculate(price, strikes, shares, b.now())
	if err != nil {
		return []models.TradeResult{b.failedResult(symbol, err.Error())}, nil
	}
	result, err := b.broker.SubmitCollarOrder(symbol, params.PutStrike, params.CallStrike, params.Expiration, params.NumCollars)
	if err != nil {
		return nil, err
	}
	return []models.TradeResult{
		b.submitted(symbol, result, params.CallStrike, params.PutStrike, params.Expiration, params.NumCollars),
	}, nil
}

func (b *Bot) processCoveredCall(symbol string) ([]models.TradeResult, error) {
	shares, err := b.sharesOwned(symbol)
	if err != nil {
		return nil, err
	}
	if shares < 100 {
		return []models.TradeResult{b.failedResult(symbol,
			fmt.Sprintf("Insufficient shares: need 100, have %d", shares))}, nil
	}
	price, fail := b.currentPrice(symbol)
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	strikes, fail := b.chainStrikes(symbol, b.coveredCallCalc.Expiration(b.now()))
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	params, err := b.coveredCallCalc.Calculate(price, strikes, shares, b.now())
	if err != nil {
		return []models.TradeResult{b.failedResult(symbol, err.Error())}, nil
	}
	result, err := b.broker.SubmitCoveredCallOrder(symbol, params.CallStrike, params.Expiration, params.NumContracts)
	if err != nil {
		return nil, err
	}
	return []models.TradeResult{
		b.submitted(symbol, result, params.CallStrike, 0, params.Expiration, params.NumContracts),
	}, nil
}

func (b *Bot) processWheel(symbol string) ([]models.TradeResult, error) {
	shares, err := b.sharesOwned(symbol)
	if err != nil {
		return nil, err
	}
	price, fail := b.currentPrice(symbol)
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	strikes, fail := b.chainStrikes(symbol, b.wheelCalc.Expiration(b.now()))
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	params, err := b.wheelCalc.Calculate(price, strikes, shares, b.now())
	if err != nil {
		return []models.TradeResult{b.failedResult(symbol, err.Error())}, nil
	}
	var result *broker.OrderResult
	if params.Phase == strategy.WheelPhaseCoveredCall {
		result, err = b.broker.SubmitCoveredCallOrder(symbol, params.Strike, params.Expiration, params.NumContracts)
	} else {
		result, err = b.broker.SubmitCashSecuredPutOrder(symbol, params.Strike, params.Expiration, params.NumContracts)
	}
	if err != nil {
		return nil, err
	}
	return []models.TradeResult{
		b.submitted(symbol, result, params.Strike, 0, params.Expiration, params.NumContracts),
	}, nil
}

func (b *Bot) processLadderedCalls(symbol string) ([]models.TradeResult, error) {
	shares, err := b.sharesOwned(symbol)
	if err != nil {
		return nil, err
	}
	if shares < 100 {
		return []models.TradeResult{b.failedResult(symbol,
			fmt.Sprintf("Insufficient shares: need 100+, have %d", shares))}, nil
	}
	price, fail := b.currentPrice(symbol)
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	strikes, fail := b.chainStrikes(symbol, b.ladderedCalc.Expirations(b.now())[0])
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	legs, err := b.ladderedCalc.Calculate(price, strikes, shares, b.now())
	if err != nil {
		return []models.TradeResult{b.failedResult(symbol, err.Error())}, nil
	}
	if len(legs) == 0 {
		return []models.TradeResult{b.failedResult(symbol,
			fmt.Sprintf("Insufficient shares: need 100+, have %d", shares))}, nil
	}
	results := make([]models.TradeResult, 0, len(legs))
	for _, leg := range legs {
		result, err := b.broker.SubmitCoveredCallOrder(symbol, leg.CallStrike, leg.Expiration, leg.NumContracts)
		if err != nil {
			return nil, err
		}
		legSymbol := fmt.Sprintf("%s_L%d", symbol, leg.Leg)
		results = append(results,
			b.submitted(legSymbol, result, leg.CallStrike, 0, leg.Expiration, leg.NumContracts))
	}
	return results, nil
}

func (b *Bot) processDoubleCalendar(symbol string) ([]models.TradeResult, error) {
	price, fail := b.currentPrice(symbol)
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	shortExp, longExp := b.doubleCalendarCalc.Expirations(b.now())
	shortChain, err := b.broker.GetOptionChain(symbol, shortExp)
	if err != nil {
		return []models.TradeResult{b.failedResult(symbol,
			fmt.Sprintf("Option chain unavailable: %v", err))}, nil
	}
	// Both legs must trade at the same strikes; when the long chain cannot
	// be fetched or shares nothing, fall back to the short chain.
	strikes := broker.Strikes(shortChain)
	if longChain, err := b.broker.GetOptionChain(symbol, longExp); err == nil {
		if common := broker.CommonStrikes(shortChain, longChain); len(common) > 0 {
			strikes = common
		}
	}
	if len(strikes) == 0 {
		return []models.TradeResult{b.failedResult(symbol, "No option strikes available in option chain")}, nil
	}
	params, err := b.doubleCalendarCalc.Calculate(price, strikes, b.now())
	if err != nil {
		return []models.TradeResult{b.failedResult(symbol, err.Error())}, nil
	}
	result, err := b.broker.SubmitDoubleCalendarOrder(symbol, params.PutStrike, params.CallStrike,
		params.ShortExpiration, params.LongExpiration, params.NumContracts)
	if err != nil {
		return nil, err
	}
	return []models.TradeResult{
		b.submitted(symbol, result, params.PutStrike, params.CallStrike, params.ShortExpiration, params.NumContracts),
	}, nil
}

func (b *Bot) processButterfly(symbol string) ([]models.TradeResult, error) {
	price, fail := b.currentPrice(symbol)
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	strikes, fail := b.chainStrikes(symbol, b.butterflyCalc.Expiration(b.now()))
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	params, err := b.butterflyCalc.Calculate(price, strikes, b.now())
	if err != nil {
		return []models.TradeResult{b.failedResult(symbol, err.Error())}, nil
	}
	result, err := b.broker.SubmitButterflyOrder(symbol, params.LowerStrike, params.MiddleStrike,
		params.UpperStrike, params.Expiration, params.NumContracts)
	if err != nil {
		return nil, err
	}
	return []models.TradeResult{
		b.submitted(symbol, result, params.MiddleStrike, params.LowerStrike, params.Expiration, params.NumContracts),
	}, nil
}

func (b *Bot) processMarriedPut(symbol string) ([]models.TradeResult, error) {
	price, fail := b.currentPrice(symbol)
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	strikes, fail := b.chainStrikes(symbol, b.marriedPutCalc.Expiration(b.now()))
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	params, err := b.marriedPutCalc.Calculate(price, strikes, b.now())
	if err != nil {
		return []models.TradeResult{b.failedResult(symbol, err.Error())}, nil
	}
	result, err := b.broker.SubmitMarriedPutOrder(symbol, params.SharesToBuy, params.PutStrike, params.Expiration)
	if err != nil {
		return nil, err
	}
	return []models.TradeResult{
		b.submitted(symbol, result, 0, params.PutStrike, params.Expiration, params.SharesToBuy),
	}, nil
}

func (b *Bot) processLongStraddle(symbol string) ([]models.TradeResult, error) {
	price, fail := b.currentPrice(symbol)
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	strikes, fail := b.chainStrikes(symbol, b.longStraddleCalc.Expiration(b.now()))
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	params, err := b.longStraddleCalc.Calculate(price, strikes, b.now())
	if err != nil {
		return []models.TradeResult{b.failedResult(symbol, err.Error())}, nil
	}
	result, err := b.broker.SubmitLongStraddleOrder(symbol, params.Strike, params.Expiration, params.NumContracts)
	if err != nil {
		return nil, err
	}
	return []models.TradeResult{
		b.submitted(symbol, result, 0, params.Strike, params.Expiration, params.NumContracts),
	}, nil
}

func (b *Bot) processIronButterfly(symbol string) ([]models.TradeResult, error) {
	price, fail := b.currentPrice(symbol)
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	strikes, fail := b.chainStrikes(symbol, b.ironButterflyCalc.Expiration(b.now()))
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	params, err := b.ironButterflyCalc.Calculate(price, strikes, b.now())
	if err != nil {
		return []models.TradeResult{b.failedResult(symbol, err.Error())}, nil
	}
	result, err := b.broker.SubmitIronButterflyOrder(symbol, params.LowerStrike, params.MiddleStrike,
		params.UpperStrike, params.Expiration, params.NumContracts)
	if err != nil {
		return nil, err
	}
	return []models.TradeResult{
		b.submitted(symbol, result, params.MiddleStrike, params.LowerStrike, params.Expiration, params.NumContracts),
	}, nil
}

func (b *Bot) processShortStrangle(symbol string) ([]models.TradeResult, error) {
	price, fail := b.currentPrice(symbol)
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	strikes, fail := b.chainStrikes(symbol, b.shortStrangleCalc.Expiration(b.now()))
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	params, err := b.shortStrangleCalc.Calculate(price, strikes, b.now())
	if err != nil {
		return []models.TradeResult{b.failedResult(symbol, err.Error())}, nil
	}
	result, err := b.broker.SubmitShortStrangleOrder(symbol, params.PutStrike, params.CallStrike,
		params.Expiration, params.NumContracts)
	if err != nil {
		return nil, err
	}
	return []models.TradeResult{
		b.submitted(symbol, result, params.CallStrike, params.PutStrike, params.Expiration, params.NumContracts),
	}, nil
}

func (b *Bot) processIronCondor(symbol string) ([]models.TradeResult, error) {
	price, fail := b.currentPrice(symbol)
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	strikes, fail := b.chainStrikes(symbol, b.ironCondorCalc.Expiration(b.now()))
	if fail != nil {
		return []models.TradeResult{*fail}, nil
	}
	params, err := b.ironCondorCalc.Calculate(price, strikes, b.now())
	if err != nil {
		return []models.TradeResult{b.failedResult(symbol, err.Error())}, nil
	}
	result, err := b.broker.SubmitIronCondorOrder(symbol, params.PutLongStrike, params.PutShortStrike,
		params.CallShortStrike, params.CallLongStrike, params.Expiration, params.NumContracts)
	if err != nil {
		return nil, err
	}
	return []models.TradeResult{
		b.submitted(symbol, result, params.CallShortStrike, params.PutShortStrike, params.Expiration, params.NumContracts),
	}, nil
}
