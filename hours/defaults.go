package hours

import "time"

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

func nearContinuous() Hours {
	return Hours{
		Enabled:  true,
		Calendar: NearContinuous,
		Days:     weekdays,
		Open:     "22:00",
		Close:    "21:00",
	}
}

func exchangeDaily() Hours {
	return Hours{
		Enabled:  true,
		Calendar: Daily,
		Days:     weekdays,
		Open:     "08:30",
		Close:    "20:00",
	}
}

func continuous() Hours {
	return Hours{Enabled: true, Calendar: Continuous}
}

// Defaults holds the built-in trading windows per instrument. Metals,
// energy, copper and forex run Sunday 22:00 to Friday 21:00 UTC;
// agriculture trades exchange hours; crypto never closes.
var Defaults = map[string]Hours{
	// Precious metals
	"GOLD":      nearContinuous(),
	"SILVER":    nearContinuous(),
	"PLATINUM":  nearContinuous(),
	"PALLADIUM": nearContinuous(),

	// Energy
	"WTI_CRUDE":   nearContinuous(),
	"BRENT_CRUDE": nearContinuous(),
	"NATURAL_GAS": nearContinuous(),

	// Industrial metals
	"COPPER": nearContinuous(),

	// Agriculture
	"WHEAT":    exchangeDaily(),
	"CORN":     exchangeDaily(),
	"SOYBEANS": exchangeDaily(),
	"COFFEE":   exchangeDaily(),
	"SUGAR":    exchangeDaily(),
	"COCOA":    exchangeDaily(),

	// Forex
	"EURUSD": nearContinuous(),
	"GBPUSD": nearContinuous(),
	"USDJPY": nearContinuous(),

	// Crypto
	"BITCOIN":  continuous(),
	"ETHEREUM": continuous(),
}
