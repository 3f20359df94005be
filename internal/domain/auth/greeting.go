package auth

// Greeting message IDs, translated by the i18n bundle.
const (
	GreetingMorning   = "GreetingMorning"
	GreetingAfternoon = "GreetingAfternoon"
	GreetingEvening   = "GreetingEvening"
	GreetingNight     = "GreetingNight"
)

// GreetingFor buckets a local hour: 05-11 morning, 12-16 afternoon,
// 17-20 evening, anything else night.
func GreetingFor(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return GreetingMorning
	case hour >= 12 && hour < 17:
		return GreetingAfternoon
	case hour >= 17 && hour < 21:
		return GreetingEvening
	default:
		return GreetingNight
	}
}
