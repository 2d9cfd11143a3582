// backend/src/services/advisor_service.go
package services

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/username/bitbudget/backend/src/finance"
	"github.com/username/bitbudget/backend/src/model"
)

// Rule-based advice generation. No model calls; the decision table below is
// the whole engine.

var advisorTips = []string{
	"Build an emergency fund covering 3-6 months of expenses.",
	"Consider automating your savings with scheduled transfers.",
	"Review your monthly subscriptions and cancel the ones you rarely use.",
	"For large purchases, compare prices and wait for promotions.",
	"Consider renegotiating high-interest debt.",
	"Invest in your financial education through books or free online courses.",
	"Set financial goals that are specific, measurable, achievable, relevant and time-bound.",
	"Diversify your investments to reduce risk.",
}

type advisorServiceImpl struct {
	windowMonths int
	// pickTip selects an index in [0, n). Swapped out in tests for a
	// deterministic pick.
	pickTip func(n int) int
}

func NewAdvisorService(windowMonths int) AdvisorService {
	return &advisorServiceImpl{
		windowMonths: windowMonths,
		pickTip:      rand.Intn,
	}
}

// NewAdvisorServiceWithPicker builds an advisor whose tip selection is
// controlled by the caller.
func NewAdvisorServiceWithPicker(windowMonths int, pickTip func(n int) int) AdvisorService {
	return &advisorServiceImpl{windowMonths: windowMonths, pickTip: pickTip}
}

func (s *advisorServiceImpl) Advise(snapshot finance.Snapshot, registry finance.Registry) Advice {
	var advice Advice

	switch rate := snapshot.SavingsRate; {
	case rate < 0:
		advice.Title = "Warning: Spending Exceeds Income"
		advice.Content = fmt.Sprintf(
			"Over the last %d months your spending exceeded your income by $%.2f. I recommend reviewing your expenses, especially in your largest spending categories, and setting a budget to avoid debt.",
			s.windowMonths, math.Abs(snapshot.Balance))
		advice.Type = model.RecommendationTypeBudget
	case rate < 10:
		advice.Title = "Increase Your Savings Rate"
		advice.Content = fmt.Sprintf(
			"Your current savings rate is %.1f%%, below the recommended 20%%. Try to grow your savings by cutting non-essential spending or finding additional sources of income.",
			rate)
		advice.Type = model.RecommendationTypeSaving
	case rate > 50:
		advice.Title = "Consider Investing More"
		advice.Content = fmt.Sprintf(
			"Your savings rate of %.1f%% is excellent! With that surplus, consider diversifying your investments to make your money work for you.",
			rate)
		advice.Type = model.RecommendationTypeInvestment
	default:
		advice.Title = "Your Budget Is Balanced"
		advice.Content = fmt.Sprintf(
			"Congratulations on keeping a balanced budget with a savings rate of %.1f%%. Keep monitoring your spending and consider setting specific financial goals for the future.",
			rate)
		advice.Type = model.RecommendationTypeGeneral
	}

	if key, share, ok := snapshot.TopExpenseCategory(); ok && share > 40 {
		title := key
		if c, err := registry.Lookup(key); err == nil {
			title = c.Title
		}
		advice.Content += fmt.Sprintf(
			"\n\nI noticed that %s accounts for %.1f%% of your total expenses. Consider whether there are opportunities to cut spending in that category.",
			title, share)
	}

	advice.Content += fmt.Sprintf("\n\nTip: %s", advisorTips[s.pickTip(len(advisorTips))])
	return advice
}
