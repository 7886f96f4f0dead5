// Package notify renders push-notification text for a product
// recommendation. It consumes the advisor's decision; nothing here
// feeds back into scoring.
package notify

import (
	"fmt"

	"github.com/dvloznov/product-advisor/internal/advisor"
)

// baseMessages holds the fixed tone-of-voice line per product.
var baseMessages = map[advisor.Product]string{
	advisor.TravelCard:           "Карта для путешествий с кэшбэком до 5% на отели и такси",
	advisor.PremiumCard:          "Премиальная карта с эксклюзивными привилегиями",
	advisor.CreditCard:           "Кредитная карта с льготным периодом до 55 дней",
	advisor.CurrencyExchange:     "Выгодный обмен валют без комиссии",
	advisor.DepositSavings:       "Накопительный счет с доходностью до 8% годовых",
	advisor.DepositMulticurrency: "Мультивалютный депозит для хранения USD, EUR и KZT",
	advisor.Investments:          "Инвестиционный портфель с доходностью до 12%",
	advisor.CashLoan:             "Кредит наличными под 15.9% годовых",
}

const fallbackMessage = "Специальное предложение для вас"

// Render produces the push text for a recommendation. Personalization
// branches on the winning product and, for some products, on the
// client's feature vector.
func Render(rec advisor.Recommendation) string {
	base, ok := baseMessages[rec.Product]
	if !ok {
		base = fallbackMessage
	}

	f := rec.Features
	switch rec.Product {
	case advisor.TravelCard:
		if f != nil && f.CurrencyHits > 0 {
			return fmt.Sprintf("🌍 %s. Кэшбэк 5%% на покупки в валюте!", base)
		}
		return fmt.Sprintf("🌍 %s!", base)
	case advisor.PremiumCard:
		if f != nil && f.AvgBalance > 100_000 {
			return fmt.Sprintf("💎 %s. Доступ к VIP-залам и персональному менеджеру!", base)
		}
		return fmt.Sprintf("💎 %s!", base)
	case advisor.CreditCard:
		return fmt.Sprintf("💳 %s. Льготный период 55 дней без процентов!", base)
	case advisor.CurrencyExchange:
		return fmt.Sprintf("💱 %s. Курс выгоднее на 0.5%%!", base)
	case advisor.DepositSavings:
		return fmt.Sprintf("💰 %s. Гарантированная доходность!", base)
	case advisor.DepositMulticurrency:
		return fmt.Sprintf("💰 %s. Откройте за пару минут!", base)
	case advisor.Investments:
		return fmt.Sprintf("📈 %s. Портфель под ваши цели!", base)
	case advisor.CashLoan:
		return fmt.Sprintf("💵 %s. Одобрение за 5 минут!", base)
	default:
		return fmt.Sprintf("🎯 %s!", base)
	}
}
