package dictionary

// Unwanted is the Dutch stop-word list excluded from context windows,
// keyword matching and abstract tokenisation (dac.py's `dictionary.unwanted`,
// referenced throughout the original feature extractor but not present in
// the retrieved dictionary.py — reconstructed here as a standard Dutch
// function-word list of the kind the original's call sites expect:
// determiners, pronouns, conjunctions, common prepositions and auxiliary
// verb forms).
var Unwanted = []string{
	"de", "het", "een", "en", "van", "in", "op", "te", "dat", "die",
	"is", "was", "voor", "met", "aan", "zijn", "er", "niet", "ook",
	"maar", "als", "dan", "dit", "deze", "wordt", "worden", "werd",
	"werden", "heeft", "hebben", "had", "hadden", "zal", "zullen",
	"zou", "zouden", "kan", "kunnen", "kon", "konden", "moet", "moeten",
	"om", "bij", "uit", "over", "naar", "door", "tot", "onder", "tussen",
	"of", "want", "doch", "zo", "dus", "nu", "reeds", "al", "nog",
	"toen", "wanneer", "waar", "wie", "wat", "welke", "welk", "hun",
	"haar", "zijne", "hare", "ons", "onze", "hem", "hen", "hij", "zij",
	"ik", "jij", "u", "wij", "we", "gij", "ge", "men", "men's", "elk",
	"elke", "ieder", "iedere", "alle", "alles", "beide", "beiden",
	"geen", "veel", "weinig", "meer", "minder", "meest", "zeer",
	"heel", "zeker", "eens", "hier", "daar", "toch", "echter", "enkel",
	"slechts",
}

var unwantedSet = toSet(Unwanted)

// IsUnwanted reports whether w (already lowercased) is a stop word.
func IsUnwanted(w string) bool {
	_, ok := unwantedSet[w]
	return ok
}
