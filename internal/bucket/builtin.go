package bucket

// Gojuon returns the ten kana rows あ..わ. Members include small kana and
// voiced forms, so each row covers a contiguous hiragana code point range.
func Gojuon() *Alphabet {
	return MustNew([]Bucket{
		{Key: "あ", Lower: "ぁ", Members: "ぁあぃいぅうぇえぉお"},
		{Key: "か", Lower: "か", Members: "かがきぎくぐけげこご"},
		{Key: "さ", Lower: "さ", Members: "さざしじすずせぜそぞ"},
		{Key: "た", Lower: "た", Members: "ただちぢっつづてでとど"},
		{Key: "な", Lower: "な", Members: "なにぬねの"},
		{Key: "は", Lower: "は", Members: "はばぱひびぴふぶぷへべぺほぼぽ"},
		{Key: "ま", Lower: "ま", Members: "まみむめも"},
		{Key: "や", Lower: "ゃ", Members: "ゃやゅゆょよ"},
		{Key: "ら", Lower: "ら", Members: "らりるれろ"},
		{Key: "わ", Lower: "ゎ", Members: "ゎわゐゑをん"},
	}, DefaultOther)
}

// Latin returns A..Z. Names compare bytewise, so lowercase names sort after
// "Z" and classify as the fallback. Collections browsed by letter should
// store names with a capitalized first letter.
func Latin() *Alphabet {
	buckets := make([]Bucket, 0, 26)
	for c := 'A'; c <= 'Z'; c++ {
		buckets = append(buckets, Bucket{Key: Key(string(c)), Lower: string(c)})
	}
	return MustNew(buckets, DefaultOther)
}

// Builtin resolves a built-in alphabet by name.
func Builtin(name string) (*Alphabet, bool) {
	switch name {
	case "gojuon":
		return Gojuon(), true
	case "latin":
		return Latin(), true
	}
	return nil, false
}
