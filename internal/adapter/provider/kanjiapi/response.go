package kanjiapi

type apiKanji struct {
	Kanji       string   `json:"kanji"`
	Meanings    []string `json:"meanings"`
	OnReadings  []string `json:"on_readings"`
	KunReadings []string `json:"kun_readings"`
}
