package dictionary

// Subjects maps a topical subject tag to its Dutch vocabulary, used to infer
// an article's subjects from its OCR bag-of-words and to compute
// match_txt_subject against a candidate's abstract.
var Subjects = map[string][]string{
	"politics": {
		"regering", "kabinet", "fractie", "tweede kamer",
		"eerste kamer", "politiek", "vorstenhuis",
		"koningshuis", "koninklijk huis", "troon", "rijk",
		"keizerrijk", "monarchie", "leger", "oorlog", "troepen",
		"strijdkrachten",
	},
	"sports": {
		"sport", "voetbal", "wielersport", "speler", "spelers",
	},
	"culture": {
		"kunst", "cultuur", "muziek", "toneel", "theater", "cinema",
		"romans", "verhalen", "schrijvers",
	},
	"business": {
		"economie", "beurs", "aandelen", "bedrijfsleven",
		"management", "werknemer", "werknemers", "salaris", "staking",
		"personeel",
	},
	"science": {
		"wetenschap", "studie", "onderzoek", "uitvinding", "ontdekking",
	},
	"religion": {
		"geloof", "religie",
	},
}

// SubjectNames returns the subject tags in a fixed, stable order.
func SubjectNames() []string {
	return []string{"politics", "sports", "culture", "business", "science", "religion"}
}
