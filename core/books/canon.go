package books

import "sync"

// defaultCatalog is built lazily from canon and never mutated afterwards.
var defaultCatalog = sync.OnceValue(func() *Catalog {
	return MustNewCatalog(canon)
})

// Default returns the built-in 86-book catalog covering the Protestant canon
// followed by the deuterocanonical books.
func Default() *Catalog {
	return defaultCatalog()
}

// Entries returns a copy of the built-in table, for callers that want to
// extend it before building their own catalog.
func Entries() []Book {
	out := make([]Book, len(canon))
	for i, b := range canon {
		b.Aliases = append([]string(nil), b.Aliases...)
		out[i] = b
	}
	return out
}

var (
	numerals = [...]string{"", "1", "2", "3", "4"}
	romans   = [...]string{"", "i", "ii", "iii", "iv"}
	ordinals = [...]string{"", "1st", "2nd", "3rd", "4th"}
	words    = [...]string{"", "first", "second", "third", "fourth"}
)

// numbered expands the stems of a numbered book ("1 John") into the prefixed
// forms people type. Roman numerals are only attached to stems of three or
// more letters, since "i sa" would otherwise collide with "isa" (Isaiah).
func numbered(n int, stems ...string) []string {
	out := make([]string, 0, len(stems)*4)
	for _, s := range stems {
		out = append(out, numerals[n]+" "+s, ordinals[n]+" "+s, words[n]+" "+s)
		if len(s) >= 3 {
			out = append(out, romans[n]+" "+s)
		}
	}
	return out
}

// canon is the static book table. Ordinals 1-39 are the Old Testament,
// 40-66 the New Testament and 67-86 the deuterocanonical books.
var canon = []Book{
	// Old Testament
	{Name: "Genesis", OSIS: "Gen", Ordinal: 1, Aliases: []string{"ge", "gn"}},
	{Name: "Exodus", OSIS: "Exod", Ordinal: 2, Aliases: []string{"exo", "ex"}},
	{Name: "Leviticus", OSIS: "Lev", Ordinal: 3, Aliases: []string{"le", "lv"}},
	{Name: "Numbers", OSIS: "Num", Ordinal: 4, Aliases: []string{"nu", "nm", "nb"}},
	{Name: "Deuteronomy", OSIS: "Deut", Ordinal: 5, Aliases: []string{"de", "dt"}},
	{Name: "Joshua", OSIS: "Josh", Ordinal: 6, Aliases: []string{"jos", "jsh"}},
	{Name: "Judges", OSIS: "Judg", Ordinal: 7, Aliases: []string{"jdg", "jg", "jdgs"}},
	{Name: "Ruth", OSIS: "Ruth", Ordinal: 8, Aliases: []string{"rth", "ru"}},
	{Name: "1 Samuel", OSIS: "1Sam", Ordinal: 9, Aliases: numbered(1, "samuel", "sam", "sa", "sm")},
	{Name: "2 Samuel", OSIS: "2Sam", Ordinal: 10, Aliases: numbered(2, "samuel", "sam", "sa", "sm")},
	{Name: "1 Kings", OSIS: "1Kgs", Ordinal: 11, Aliases: numbered(1, "kings", "kgs", "ki", "kin")},
	{Name: "2 Kings", OSIS: "2Kgs", Ordinal: 12, Aliases: numbered(2, "kings", "kgs", "ki", "kin")},
	{Name: "1 Chronicles", OSIS: "1Chr", Ordinal: 13, Aliases: numbered(1, "chronicles", "chron", "chr", "ch")},
	{Name: "2 Chronicles", OSIS: "2Chr", Ordinal: 14, Aliases: numbered(2, "chronicles", "chron", "chr", "ch")},
	{Name: "Ezra", OSIS: "Ezra", Ordinal: 15, Aliases: []string{"ezr"}},
	{Name: "Nehemiah", OSIS: "Neh", Ordinal: 16, Aliases: []string{"ne"}},
	{Name: "Esther", OSIS: "Esth", Ordinal: 17, Aliases: []string{"est", "es"}},
	{Name: "Job", OSIS: "Job", Ordinal: 18, Aliases: []string{"jb"}},
	{Name: "Psalms", OSIS: "Ps", Ordinal: 19, Aliases: []string{"psalm", "psa", "pss", "psm", "pslm"}},
	{Name: "Proverbs", OSIS: "Prov", Ordinal: 20, Aliases: []string{"pro", "prv", "pr"}},
	{Name: "Ecclesiastes", OSIS: "Eccl", Ordinal: 21, Aliases: []string{"eccles", "ecc", "ec", "qoheleth"}},
	{Name: "Song of Solomon", OSIS: "Song", Ordinal: 22, Aliases: []string{"song of songs", "sos", "so", "canticles", "canticle of canticles"}},
	{Name: "Isaiah", OSIS: "Isa", Ordinal: 23, Aliases: []string{"is"}},
	{Name: "Jeremiah", OSIS: "Jer", Ordinal: 24, Aliases: []string{"je", "jr"}},
	{Name: "Lamentations", OSIS: "Lam", Ordinal: 25, Aliases: []string{"la"}},
	{Name: "Ezekiel", OSIS: "Ezek", Ordinal: 26, Aliases: []string{"eze", "ezk"}},
	{Name: "Daniel", OSIS: "Dan", Ordinal: 27, Aliases: []string{"da", "dn"}},
	{Name: "Hosea", OSIS: "Hos", Ordinal: 28, Aliases: []string{"ho"}},
	{Name: "Joel", OSIS: "Joel", Ordinal: 29, Aliases: []string{"jl"}},
	{Name: "Amos", OSIS: "Amos", Ordinal: 30, Aliases: []string{"am"}},
	{Name: "Obadiah", OSIS: "Obad", Ordinal: 31, Aliases: []string{"ob"}},
	{Name: "Jonah", OSIS: "Jonah", Ordinal: 32, Aliases: []string{"jnh", "jon"}},
	{Name: "Micah", OSIS: "Mic", Ordinal: 33, Aliases: []string{"mc"}},
	{Name: "Nahum", OSIS: "Nah", Ordinal: 34, Aliases: []string{"na"}},
	{Name: "Habakkuk", OSIS: "Hab", Ordinal: 35, Aliases: []string{"hb"}},
	{Name: "Zephaniah", OSIS: "Zeph", Ordinal: 36, Aliases: []string{"zep", "zp"}},
	{Name: "Haggai", OSIS: "Hag", Ordinal: 37, Aliases: []string{"hg"}},
	{Name: "Zechariah", OSIS: "Zech", Ordinal: 38, Aliases: []string{"zec", "zc"}},
	{Name: "Malachi", OSIS: "Mal", Ordinal: 39, Aliases: []string{"ml"}},

	// New Testament
	{Name: "Matthew", OSIS: "Matt", Ordinal: 40, Aliases: []string{"mat", "mt"}},
	{Name: "Mark", OSIS: "Mark", Ordinal: 41, Aliases: []string{"mrk", "mar", "mk", "mr"}},
	{Name: "Luke", OSIS: "Luke", Ordinal: 42, Aliases: []string{"luk", "lk"}},
	{Name: "John", OSIS: "John", Ordinal: 43, Aliases: []string{"joh", "jhn", "jn"}},
	{Name: "Acts", OSIS: "Acts", Ordinal: 44, Aliases: []string{"act", "ac", "acts of the apostles"}},
	{Name: "Romans", OSIS: "Rom", Ordinal: 45, Aliases: []string{"ro", "rm"}},
	{Name: "1 Corinthians", OSIS: "1Cor", Ordinal: 46, Aliases: numbered(1, "corinthians", "cor", "co")},
	{Name: "2 Corinthians", OSIS: "2Cor", Ordinal: 47, Aliases: numbered(2, "corinthians", "cor", "co")},
	{Name: "Galatians", OSIS: "Gal", Ordinal: 48, Aliases: []string{"ga"}},
	{Name: "Ephesians", OSIS: "Eph", Ordinal: 49, Aliases: []string{"ephes"}},
	{Name: "Philippians", OSIS: "Phil", Ordinal: 50, Aliases: []string{"php", "pp"}},
	{Name: "Colossians", OSIS: "Col", Ordinal: 51},
	{Name: "1 Thessalonians", OSIS: "1Thess", Ordinal: 52, Aliases: numbered(1, "thessalonians", "thess", "thes", "th")},
	{Name: "2 Thessalonians", OSIS: "2Thess", Ordinal: 53, Aliases: numbered(2, "thessalonians", "thess", "thes", "th")},
	{Name: "1 Timothy", OSIS: "1Tim", Ordinal: 54, Aliases: numbered(1, "timothy", "tim", "ti")},
	{Name: "2 Timothy", OSIS: "2Tim", Ordinal: 55, Aliases: numbered(2, "timothy", "tim", "ti")},
	{Name: "Titus", OSIS: "Titus", Ordinal: 56, Aliases: []string{"tit", "ti"}},
	{Name: "Philemon", OSIS: "Phlm", Ordinal: 57, Aliases: []string{"philem", "phm"}},
	{Name: "Hebrews", OSIS: "Heb", Ordinal: 58},
	{Name: "James", OSIS: "Jas", Ordinal: 59, Aliases: []string{"jm"}},
	{Name: "1 Peter", OSIS: "1Pet", Ordinal: 60, Aliases: numbered(1, "peter", "pet", "pe", "pt")},
	{Name: "2 Peter", OSIS: "2Pet", Ordinal: 61, Aliases: numbered(2, "peter", "pet", "pe", "pt")},
	{Name: "1 John", OSIS: "1John", Ordinal: 62, Aliases: numbered(1, "john", "jn", "jhn", "jo", "joh")},
	{Name: "2 John", OSIS: "2John", Ordinal: 63, Aliases: numbered(2, "john", "jn", "jhn", "jo", "joh")},
	{Name: "3 John", OSIS: "3John", Ordinal: 64, Aliases: numbered(3, "john", "jn", "jhn", "jo", "joh")},
	{Name: "Jude", OSIS: "Jude", Ordinal: 65, Aliases: []string{"jud", "jd"}},
	{Name: "Revelation", OSIS: "Rev", Ordinal: 66, Aliases: []string{"revelations", "re", "the revelation", "apocalypse"}},

	// Deuterocanon
	{Name: "Tobit", OSIS: "Tob", Ordinal: 67, Aliases: []string{"tb"}},
	{Name: "Judith", OSIS: "Jdt", Ordinal: 68, Aliases: []string{"jdth"}},
	{Name: "Greek Esther", OSIS: "AddEsth", Ordinal: 69, Aliases: []string{"additions to esther", "rest of esther", "esther greek", "esg"}},
	{Name: "Wisdom of Solomon", OSIS: "Wis", Ordinal: 70, Aliases: []string{"wisdom", "ws"}},
	{Name: "Sirach", OSIS: "Sir", Ordinal: 71, Aliases: []string{"ecclesiasticus", "ecclus"}},
	{Name: "Baruch", OSIS: "Bar", Ordinal: 72},
	{Name: "Letter of Jeremiah", OSIS: "EpJer", Ordinal: 73, Aliases: []string{"epistle of jeremiah", "let jer", "lje"}},
	{Name: "1 Maccabees", OSIS: "1Macc", Ordinal: 74, Aliases: numbered(1, "maccabees", "macc", "mac", "ma")},
	{Name: "2 Maccabees", OSIS: "2Macc", Ordinal: 75, Aliases: numbered(2, "maccabees", "macc", "mac", "ma")},
	{Name: "3 Maccabees", OSIS: "3Macc", Ordinal: 76, Aliases: numbered(3, "maccabees", "macc", "mac", "ma")},
	{Name: "4 Maccabees", OSIS: "4Macc", Ordinal: 77, Aliases: numbered(4, "maccabees", "macc", "mac", "ma")},
	{Name: "1 Esdras", OSIS: "1Esd", Ordinal: 78, Aliases: numbered(1, "esdras", "esd")},
	{Name: "2 Esdras", OSIS: "2Esd", Ordinal: 79, Aliases: numbered(2, "esdras", "esd")},
	{Name: "Prayer of Azariah", OSIS: "PrAzar", Ordinal: 80, Aliases: []string{"song of the three young men", "song of three children", "aza"}},
	{Name: "Susanna", OSIS: "Sus", Ordinal: 81},
	{Name: "Bel and the Dragon", OSIS: "Bel", Ordinal: 82},
	{Name: "Prayer of Manasseh", OSIS: "PrMan", Ordinal: 83, Aliases: []string{"prayer of manasses", "man"}},
	{Name: "Psalm 151", OSIS: "Ps151", Ordinal: 84, Aliases: []string{"psalms 151", "psa 151"}},
	{Name: "Odes", OSIS: "Odes", Ordinal: 85, Aliases: []string{"ode"}},
	{Name: "Psalms of Solomon", OSIS: "PssSol", Ordinal: 86, Aliases: []string{"ps sol", "pss sol"}},
}
