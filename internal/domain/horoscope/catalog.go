package horoscope

import (
	"errors"
	"fmt"
)

const (
	signCount      = 12
	nakshatraCount = 27
	tithiCount     = 30
)

// TithiPrefix precedes the tithi number in every sign record.
const TithiPrefix = "তিথি"

// Catalog holds the immutable reference data used to compose readings.
// Pool order is part of the output contract: reordering changes every reading.
type Catalog struct {
	Signs      []string
	Nakshatras []string
	Flavor     map[string]string
	Lead       []string
	Health     []string
	Advice     []string
}

// Validate ensures the catalog can serve every sign and nakshatra.
func (c Catalog) Validate() error {
	if len(c.Signs) != signCount {
		return fmt.Errorf("catalog: expected %d signs, got %d", signCount, len(c.Signs))
	}
	seen := make(map[string]struct{}, len(c.Signs))
	for _, sign := range c.Signs {
		if sign == "" {
			return errors.New("catalog: empty sign name")
		}
		if _, ok := seen[sign]; ok {
			return fmt.Errorf("catalog: duplicate sign %q", sign)
		}
		seen[sign] = struct{}{}
	}
	if len(c.Nakshatras) != nakshatraCount {
		return fmt.Errorf("catalog: expected %d nakshatras, got %d", nakshatraCount, len(c.Nakshatras))
	}
	if len(c.Lead) == 0 || len(c.Health) == 0 || len(c.Advice) == 0 {
		return errors.New("catalog: template pools cannot be empty")
	}
	return nil
}

func (c Catalog) flavorFor(nakshatra string) string {
	return c.Flavor[nakshatra]
}

// DefaultCatalog returns the canonical Bengali reference data.
func DefaultCatalog() Catalog {
	return Catalog{
		Signs: []string{
			"মেষ", "বৃষ", "মিথুন", "কর্কট", "সিংহ", "কন্যা",
			"তুলা", "বৃশ্চিক", "ধনু", "মকর", "কুম্ভ", "মীন",
		},
		Nakshatras: []string{
			"অশ্বিনী", "ভরণী", "কৃত্তিকা", "রোহিণী", "মৃগশিরা", "আর্দ্রা",
			"পুনর্বসু", "পুষ্যা", "অশ্লেষা", "মঘা", "পূর্বফাল্গুনী", "উত্তরফাল্গুনী",
			"হস্তা", "চিত্রা", "স্বাতী", "বিশাখা", "অনুরাধা", "জ্যেষ্ঠা",
			"মূলা", "পূর্বাষাঢ়া", "উত্তরাষাঢ়া", "শ্রবণা", "ধনিষ্ঠা", "শতভিষা",
			"পূর্বভাদ্রপদা", "উত্তরভাদ্রপদা", "রেবতী",
		},
		Flavor: map[string]string{
			"অশ্বিনী": "শুরু করার শক্তি এবং তাড়না আছে।",
			"ভরণী": "সৃজনশীল ও সহমর্মিতাপূর্ণ পরিবেশে থাকবেন।",
			"কৃত্তিকা": "পরিশ্রমের ফল আজ প্রতিফলিত হবে।",
			"রোহিণী": "পারিবারিক মেলামেশা এবং স্নেহ বাড়বে।",
			"মৃগশিরা": "উৎসাহ ও অনুসন্ধানশীলতা বাড়বে।",
			"আর্দ্রা": "আবেগ ও অনীহা মিশ্র অনুভব হতে পারে।",
			"পুনর্বসু": "স্থিরতা ও পুনরুজ্জীবনের সময়।",
			"পুষ্যা": "সহযোগিতা ও সময়োপযোগী সিদ্ধান্ত গ্রহণ সম্ভব।",
			"অশ্লেষা": "সতর্কতার সাথে সম্পর্ক সামলান।",
			"মঘা": "সম্মান ও পুরস্কারের সম্ভাবনা আছে।",
		},
		Lead: []string{
			"আজ আপনার সৃজনশীল শক্তি জাগ্রত হবে। অনেকেই আপনার নতুন আইডিয়াকে প্রশংসা করবে।",
			"আজ ধৈর্য ও বিচক্ষণতা কাজে দেবে—একটু সাবধান থাকুন, তবে সুযোগ আছে।",
			"আজ আপনার মন কর্মে একাগ্র থাকবে; নতুন সিদ্ধান্ত গ্রহণে সাফল্য মিলবে।",
			"আজ স্বাভাবিকের চেয়ে বেশি যোগাযোগ ঘটবে—মিথস্ক্রিয়া ফলদায়ক হবে।",
			"আত্মবিশ্লেষণ ও শৃঙ্খলা আজ বিশেষ ফল দেবে।",
		},
		Health: []string{
			"গলা ও শ্বাসনালায় হালকা অসুবিধা হতে পারে — গরম পানীয় সহনীয় হবে।",
			"হজম বা পেটের সমস্যা এড়াতে হালকা খাবার খান।",
			"চোখ ও মাথায় ক্লান্তি এড়াতে মাঝেমধ্যে বিরতি নিন।",
			"হালকা ব্যায়াম বা হাঁটা স্বাস্থ্যকে সুদৃঢ় রাখবে।",
			"বিশ্রাম ও পর্যাপ্ত পানি গ্রহণ রাখুন।",
		},
		Advice: []string{
			"নিজের সময় দিন, বিশ্রামে ফাঁকি নিয়ে কাজ করুন।",
			"নতুন আইডিয়াকে নোট করে রাখুন; সন্ধ্যায় পুনর্বিবেচনা করুন।",
			"পরিবারের সদস্যদের সঙ্গে সময় কাটান; মন শান্ত হবে।",
			"অর্থ-ব্যবস্থায় সতর্ক থাকুন; অপ্রয়োজনীয় খরচ এড়ান।",
			"গভীর শ্বাস নিয়ে ধ্যান চেষ্টা করুন—মনে শীতলতা আনবে।",
		},
	}
}
