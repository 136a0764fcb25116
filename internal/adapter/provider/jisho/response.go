package jisho

// apiResponse is the envelope returned by the Jisho search endpoint.
type apiResponse struct {
	Data []apiDatum `json:"data"`
}

// apiDatum is one dictionary match.
type apiDatum struct {
	Slug     string        `json:"slug"`
	Japanese []apiJapanese `json:"japanese"`
	Senses   []apiSense    `json:"senses"`
}

// apiJapanese pairs a written form with its kana reading.
type apiJapanese struct {
	Word    string `json:"word"`
	Reading string `json:"reading"`
}

// apiSense is a group of definitions sharing a part of speech.
type apiSense struct {
	EnglishDefinitions []string `json:"english_definitions"`
	PartsOfSpeech      []string `json:"parts_of_speech"`
}
