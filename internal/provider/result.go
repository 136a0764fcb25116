package provider

// DictResult is the structured result from the dictionary API provider.
type DictResult struct {
	Word    string
	Reading string
	Senses  []SenseResult
}

// SenseResult represents a single word sense from the external dictionary.
type SenseResult struct {
	Glosses      []string
	PartOfSpeech string
}

// CharResult represents per-character data from the kanji API provider.
type CharResult struct {
	Symbol      string
	Meanings    []string
	OnReadings  []string
	KunReadings []string
}

// GenResult is the labeled output parsed from the generative provider's
// free-text completion. Either field may be empty.
type GenResult struct {
	Reading string
	Meaning string
}
