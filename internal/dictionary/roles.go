package dictionary

// Role describes one role vocabulary: the Dutch surface words that trigger
// it, the ontology (schema.org/DBpedia-style) type names it maps to, the
// topical subjects it belongs to, and the coarse NER type tag(s) it
// implies.
type Role struct {
	Words       []string
	SchemaTypes []string
	Subjects    []string
	Types       []string
}

// Roles is the full role taxonomy, keyed by role name. Ported value-for-value
// from the original Dutch lexicon; word lists, schema type lists and subject
// assignments are unchanged.
var Roles = map[string]Role{
	// Persons
	"politician": {
		Words: []string{
			"minister", "premier", "kamerlid", "partijleider",
			"burgemeester", "staatssecretaris", "president",
			"wethouder", "consul", "ambassadeur", "gemeenteraadslid",
			"fractieleider", "politicus",
		},
		SchemaTypes: []string{
			"Politician", "OfficeHolder", "Judge",
			"MemberOfParliament", "President", "PrimeMinister",
			"Governor", "Congressman", "Mayor",
		},
		Subjects: []string{"politics"},
		Types:    []string{"person"},
	},
	"royalty": {
		Words: []string{
			"keizer", "koning", "koningin", "vorst", "prins",
			"prinses", "kroonprins", "kroonprinses", "majesteit",
		},
		SchemaTypes: []string{"Royalty", "Monarch", "Noble"},
		Subjects:    []string{"politics"},
		Types:       []string{"person"},
	},
	"military_person": {
		Words: []string{
			"generaal", "gen", "majoor", "maj", "luitenant",
			"kolonel", "kol", "kapitein", "bevelhebber",
		},
		SchemaTypes: []string{"MilitaryPerson"},
		Subjects:    []string{"politics"},
		Types:       []string{"person"},
	},
	"sports_person": {
		Words: []string{
			"atleet", "sportman", "sportvrouw", "sporter",
			"wielrenner", "voetballer", "tennisser", "zwemmer", "spits",
			"keeper", "scheidsrechter",
		},
		SchemaTypes: []string{
			"Athlete", "SoccerPlayer", "Cyclist", "SoccerManager",
			"TennisPlayer", "Swimmer", "Boxer", "Wrestler", "Speedskater",
			"Skier", "WinterSportPlayer", "GolfPlayer", "RacingDriver",
			"MotorsportRacer", "Canoist", "Cricketer", "RugbyPlayer",
			"HorseRider", "AmericanFootballPlayer", "Rower", "MotorcycleRider",
			"Skater", "BaseballPlayer", "BasketballPlayer", "Gymnast",
			"SportsManager", "IceHockeyPlayer", "FigureSkater", "HandballPlayer",
		},
		Subjects: []string{"sports"},
		Types:    []string{"person"},
	},
	"performing_artist": {
		Words: []string{
			"acteur", "toneelspeler", "filmregisseur", "regisseur",
			"actrice",
		},
		SchemaTypes: []string{"Actor", "VoiceActor", "Presenter", "Comedian"},
		Subjects:    []string{"culture"},
		Types:       []string{"person"},
	},
	"musical_artist": {
		Words: []string{
			"musicus", "componist", "zanger", "zangeres",
			"trompetspeler", "orkestleider",
		},
		SchemaTypes: []string{"MusicalArtist", "ClassicalMusicArtist"},
		Subjects:    []string{"culture"},
		Types:       []string{"person"},
	},
	"visual_artist": {
		Words: []string{
			"kunstenaar", "schilder", "beeldhouwer", "architect",
			"fotograaf", "ontwerper",
		},
		SchemaTypes: []string{
			"Painter", "Architect", "Photographer", "FashionDesigner",
		},
		Subjects: []string{"culture"},
		Types:    []string{"person"},
	},
	"writer": {
		Words: []string{"auteur", "schrijver", "dichter", "journalist"},
		SchemaTypes: []string{
			"Writer", "Journalist", "Screenwriter", "Poet",
		},
		Subjects: []string{"culture"},
		Types:    []string{"person"},
	},
	"business_person": {
		Words: []string{
			"manager", "teamleider", "directeur", "bedrijfsleider", "ondernemer",
		},
		SchemaTypes: []string{},
		Subjects:    []string{"business"},
		Types:       []string{"person"},
	},
	"scientist": {
		Words: []string{
			"prof", "professor", "dr", "ingenieur", "ir",
			"natuurkundige", "scheikundige", "wiskundige", "bioloog",
			"historicus", "onderzoeker", "drs", "ing", "wetenschapper",
		},
		SchemaTypes: []string{"Scientist"},
		Subjects:    []string{"science"},
		Types:       []string{"person"},
	},
	"religious_person": {
		Words: []string{
			"dominee", "paus", "kardinaal", "aartsbisschop",
			"bisschop", "monseigneur", "mgr", "kapelaan", "deken",
			"abt", "prior", "pastoor", "pater", "predikant",
			"opperrabbijn", "rabbijn", "imam", "geestelijke", "frater",
		},
		SchemaTypes: []string{
			"ChristianBishop", "Cardinal", "Cleric", "Saint", "Pope",
		},
		Subjects: []string{"religion"},
		Types:    []string{"person"},
	},
	// Locations
	"settlement": {
		Words: []string{
			"gemeente", "provincie", "stad", "dorp", "regio", "wijk",
			"gebied", "stadsdeel", "waterschap", "straat",
		},
		SchemaTypes: settlementSchemaTypes(),
		Subjects:    []string{},
		Types:       []string{"location"},
	},
	"infrastructure": {
		Words: []string{
			"station", "metrostation", "vliegveld", "gebouw", "brug", "monument",
		},
		SchemaTypes: []string{
			"Building", "Road", "Station", "RailwayStation",
			"Airport", "HistoricBuilding", "Bridge", "Dam", "ArchitecturalStructure",
			"Monument", "Castle", "WorldHeritageSite", "MetroStation",
		},
		Subjects: []string{},
		Types:    []string{"location"},
	},
	"natural_location": {
		Words: []string{"rivier", "gebergte", "meer", "planeet", "eiland"},
		SchemaTypes: []string{
			"River", "Mountain", "Lake", "CelestialBody",
			"Asteroid", "Planet", "Island", "MountainRange", "BodyOfWater",
			"MountainPass",
		},
		Subjects: []string{},
		Types:    []string{"location"},
	},
	"sports_location": {
		Words:       []string{"stadion", "arena"},
		SchemaTypes: []string{"Stadium", "Arena"},
		Subjects:    []string{"sports"},
		Types:       []string{"location"},
	},
	"religious_location": {
		Words: []string{
			"bisdom", "kerk", "kathedraal", "tempel", "kapel", "heiligdom",
		},
		SchemaTypes: []string{"Church", "ReligiousBuilding", "Diocese"},
		Subjects:    []string{"religion"},
		Types:       []string{"location", "organisation"},
	},
	// Organizations
	"company": {
		Words: []string{
			"bedrijf", "bank", "luchtvaartmaatschappij", "onderneming", "hotel",
		},
		SchemaTypes: []string{"Company", "Bank", "Airline", "Hotel"},
		Subjects:    []string{"business"},
		Types:       []string{"organisation"},
	},
	"school": {
		Words: []string{
			"basisschool", "school", "hogeschool", "universiteit",
			"onderzoeksinstituut", "faculteit",
		},
		SchemaTypes: []string{"School", "University"},
		Subjects:    []string{"science"},
		Types:       []string{"organisation", "location"},
	},
	"political_organisation": {
		Words:       []string{"partij"},
		SchemaTypes: []string{"PoliticalParty", "GovernmentAgency"},
		Subjects:    []string{"politics"},
		Types:       []string{"organisation"},
	},
	"sports_organisation": {
		Words: []string{"club", "voetbalclub"},
		SchemaTypes: []string{
			"SoccerClub", "RugbyClub", "SportsTeam", "SoccerLeague", "HockeyTeam",
		},
		Subjects: []string{"sports"},
		Types:    []string{"organisation"},
	},
	"cultural_organisation": {
		Words:       []string{"museum", "band", "rockband", "popgroep", "orkest"},
		SchemaTypes: []string{"Band", "MusicGroup", "RecordLabel", "Museum"},
		Subjects:    []string{"culture"},
		Types:       []string{"organisation"},
	},
	"military_organisation": {
		Words:       []string{},
		SchemaTypes: []string{"MilitaryUnit"},
		Subjects:    []string{"politics"},
		Types:       []string{"organisation"},
	},
	"media_organisation": {
		Words: []string{
			"krant", "tijdschrift", "zender", "televisiezender", "radiozender",
		},
		SchemaTypes: []string{
			"Newspaper", "Magazine", "RadioStation", "Publisher",
			"TelevisionStation", "AcademicJournal", "PeriodicalLiterature",
		},
		Subjects: []string{},
		Types:    []string{},
	},
	// Other
	"creative_work": {
		Words: []string{
			"film", "album", "plaat", "nummer", "single", "boek", "roman",
			"novelle", "bundel", "dichtbundel", "script", "serie", "televisieserie",
			"opera", "toneelstuk", "gedicht", "schilderij", "beeld",
		},
		SchemaTypes: []string{
			"CreativeWork", "Film", "Album", "Single", "Book",
			"TelevisionShow", "TelevisionEpisode", "Song", "MusicalWork",
			"ArtWork", "WrittenWork", "Play",
		},
		Subjects: []string{"culture"},
		Types:    []string{},
	},
	"product": {
		Words:       []string{},
		SchemaTypes: []string{"Product"},
		Subjects:    []string{"business"},
		Types:       []string{},
	},
	"ship": {
		Words: []string{
			"ss", "stoomschip", "passagiersschip", "cruiseschip",
			"schip", "vlaggeschip", "zeilschip", "jacht",
		},
		SchemaTypes: []string{"Ship"},
		Subjects:    []string{"business"},
		Types:       []string{},
	},
	"sports_event": {
		Words: []string{"wedstrijd"},
		SchemaTypes: []string{
			"OlympicEvent", "SoccerTournament", "GrandPrix",
			"TennisTournament", "FootballMatch", "CyclingRace", "SportsEvent",
		},
		Subjects: []string{"sports"},
		Types:    []string{},
	},
	"military_event": {
		Words:       []string{"oorlog", "conflict"},
		SchemaTypes: []string{"MilitaryConflict"},
		Subjects:    []string{"politics"},
		Types:       []string{},
	},
}

// RoleWordIndex maps a Dutch role word to the role name(s) that contain it.
// Built once at init for O(1) lookups by Mention construction.
var RoleWordIndex = buildRoleWordIndex()

func buildRoleWordIndex() map[string][]string {
	idx := make(map[string][]string)
	for name, r := range Roles {
		for _, w := range r.Words {
			idx[w] = append(idx[w], name)
		}
	}
	return idx
}

// RoleSchemaTypeIndex maps a schema/dbo type name to the role name(s) that
// list it, used by match_txt_role to go from a document's declared types
// back to a role.
var RoleSchemaTypeIndex = buildRoleSchemaTypeIndex()

func buildRoleSchemaTypeIndex() map[string][]string {
	idx := make(map[string][]string)
	for name, r := range Roles {
		for _, t := range r.SchemaTypes {
			idx[t] = append(idx[t], name)
		}
	}
	return idx
}
