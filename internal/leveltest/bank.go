// Package leveltest implements the one-time diagnostic placement test: the
// fixed per-grade question banks, the category tiers derived from the score,
// and the client-side state machine that walks a student through the test.
package leveltest

import "errors"

var ErrUnknownLevel = errors.New("unknown grade level")

type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"prompt"`
	Choices       []Choice `json:"choices"`
	CorrectChoice string   `json:"-"` // never serialized to students
}

// Bank is the fixed question set of one grade level. Breakpoints split the
// score range into three category tiers: score >= Breakpoints[1] is the top
// tier, score >= Breakpoints[0] the middle one.
type Bank struct {
	Level       string
	Questions   []Question
	Breakpoints [2]int
	Categories  [3]string // starter, middle, top
}

// Category tier labels, shared by both grades.
const (
	CategoryExplorer = "🌿 مستكشف بيئي مبتدئ"
	CategoryFriend   = "🌱 صديق البيئة الواعد"
	CategoryExpert   = "🌍 خبير بيئي كوكبي"
)

// BankFor returns the question bank of a grade level.
func BankFor(level string) (*Bank, error) {
	switch level {
	case "5eme":
		return &grade5Bank, nil
	case "6eme":
		return &grade6Bank, nil
	default:
		return nil, ErrUnknownLevel
	}
}

// CategoryFor maps a raw score to its category label.
func (b *Bank) CategoryFor(score int) string {
	switch {
	case score >= b.Breakpoints[1]:
		return b.Categories[2]
	case score >= b.Breakpoints[0]:
		return b.Categories[1]
	default:
		return b.Categories[0]
	}
}

// Question returns the bank question with the given id.
func (b *Bank) Question(id string) (*Question, bool) {
	for i := range b.Questions {
		if b.Questions[i].ID == id {
			return &b.Questions[i], true
		}
	}
	return nil, false
}

var grade5Bank = Bank{
	Level:       "5eme",
	Breakpoints: [2]int{5, 8},
	Categories:  [3]string{CategoryExplorer, CategoryFriend, CategoryExpert},
	Questions: []Question{
		{
			ID: "q5-1", Prompt: "ما هو أفضل مكان لرمي قشرة الموز؟",
			Choices: []Choice{
				{ID: "a", Text: "في الشارع"},
				{ID: "b", Text: "في حاوية النفايات العضوية"},
				{ID: "c", Text: "في النهر"},
			},
			CorrectChoice: "b",
		},
		{
			ID: "q5-2", Prompt: "ماذا نفعل بالزجاجة البلاستيكية الفارغة؟",
			Choices: []Choice{
				{ID: "a", Text: "نرميها في الطبيعة"},
				{ID: "b", Text: "نحرقها"},
				{ID: "c", Text: "نضعها في حاوية إعادة التدوير"},
			},
			CorrectChoice: "c",
		},
		{
			ID: "q5-3", Prompt: "لماذا نغلق صنبور الماء أثناء تنظيف الأسنان؟",
			Choices: []Choice{
				{ID: "a", Text: "لتوفير الماء"},
				{ID: "b", Text: "لأن الماء بارد"},
				{ID: "c", Text: "لا داعي لإغلاقه"},
			},
			CorrectChoice: "a",
		},
		{
			ID: "q5-4", Prompt: "أي وسيلة نقل أقل تلويثاً للهواء؟",
			Choices: []Choice{
				{ID: "a", Text: "السيارة"},
				{ID: "b", Text: "الدراجة الهوائية"},
				{ID: "c", Text: "الطائرة"},
			},
			CorrectChoice: "b",
		},
		{
			ID: "q5-5", Prompt: "ما فائدة الأشجار في المدينة؟",
			Choices: []Choice{
				{ID: "a", Text: "تنقي الهواء وتعطي الظل"},
				{ID: "b", Text: "لا فائدة لها"},
				{ID: "c", Text: "تزيد من الضجيج"},
			},
			CorrectChoice: "a",
		},
		{
			ID: "q5-6", Prompt: "ماذا نسمي إعادة استعمال المواد المستهلكة لصنع مواد جديدة؟",
			Choices: []Choice{
				{ID: "a", Text: "التلوث"},
				{ID: "b", Text: "إعادة التدوير"},
				{ID: "c", Text: "الإهدار"},
			},
			CorrectChoice: "b",
		},
		{
			ID: "q5-7", Prompt: "أي من هذه النفايات يتحلل بسرعة في الطبيعة؟",
			Choices: []Choice{
				{ID: "a", Text: "كيس بلاستيكي"},
				{ID: "b", Text: "علبة ألمنيوم"},
				{ID: "c", Text: "ورقة شجر"},
			},
			CorrectChoice: "c",
		},
		{
			ID: "q5-8", Prompt: "كيف نوفر الكهرباء في البيت؟",
			Choices: []Choice{
				{ID: "a", Text: "نطفئ الأضواء عند مغادرة الغرفة"},
				{ID: "b", Text: "نترك التلفاز يعمل طوال الليل"},
				{ID: "c", Text: "نشغل كل المصابيح نهاراً"},
			},
			CorrectChoice: "a",
		},
		{
			ID: "q5-9", Prompt: "ما هو مصدر الطاقة المتجددة من بين ما يلي؟",
			Choices: []Choice{
				{ID: "a", Text: "الفحم"},
				{ID: "b", Text: "الشمس"},
				{ID: "c", Text: "البترول"},
			},
			CorrectChoice: "b",
		},
		{
			ID: "q5-10", Prompt: "ماذا يحدث للأسماك عندما نرمي النفايات في البحر؟",
			Choices: []Choice{
				{ID: "a", Text: "تصبح أكثر سعادة"},
				{ID: "b", Text: "لا يحدث شيء"},
				{ID: "c", Text: "تتضرر وقد تموت"},
			},
			CorrectChoice: "c",
		},
	},
}

var grade6Bank = Bank{
	Level:       "6eme",
	Breakpoints: [2]int{6, 10},
	Categories:  [3]string{CategoryExplorer, CategoryFriend, CategoryExpert},
	Questions: []Question{
		{
			ID: "q6-1", Prompt: "ما هو الاحتباس الحراري؟",
			Choices: []Choice{
				{ID: "a", Text: "ارتفاع درجة حرارة الأرض بسبب الغازات الدفيئة"},
				{ID: "b", Text: "انخفاض درجة حرارة الأرض"},
				{ID: "c", Text: "نوع من أنواع المطر"},
			},
			CorrectChoice: "a",
		},
		{
			ID: "q6-2", Prompt: "أي غاز تمتصه الأشجار من الهواء؟",
			Choices: []Choice{
				{ID: "a", Text: "الأكسجين"},
				{ID: "b", Text: "ثاني أكسيد الكربون"},
				{ID: "c", Text: "النيتروجين"},
			},
			CorrectChoice: "b",
		},
		{
			ID: "q6-3", Prompt: "كم تستغرق الزجاجة البلاستيكية لتتحلل في الطبيعة؟",
			Choices: []Choice{
				{ID: "a", Text: "أسبوع واحد"},
				{ID: "b", Text: "سنة واحدة"},
				{ID: "c", Text: "مئات السنين"},
			},
			CorrectChoice: "c",
		},
		{
			ID: "q6-4", Prompt: "ما معنى التنوع البيولوجي؟",
			Choices: []Choice{
				{ID: "a", Text: "تنوع الكائنات الحية في بيئة ما"},
				{ID: "b", Text: "تنوع أنواع السيارات"},
				{ID: "c", Text: "تنوع المباني في المدينة"},
			},
			CorrectChoice: "a",
		},
		{
			ID: "q6-5", Prompt: "أي من هذه الطاقات غير متجددة؟",
			Choices: []Choice{
				{ID: "a", Text: "طاقة الرياح"},
				{ID: "b", Text: "الغاز الطبيعي"},
				{ID: "c", Text: "الطاقة الشمسية"},
			},
			CorrectChoice: "b",
		},
		{
			ID: "q6-6", Prompt: "ما هي إحدى نتائج قطع الغابات؟",
			Choices: []Choice{
				{ID: "a", Text: "زيادة عدد الحيوانات"},
				{ID: "b", Text: "تحسن جودة الهواء"},
				{ID: "c", Text: "انقراض بعض الكائنات الحية"},
			},
			CorrectChoice: "c",
		},
		{
			ID: "q6-7", Prompt: "ماذا نسمي سقوط المطر الملوث بالغازات الصناعية؟",
			Choices: []Choice{
				{ID: "a", Text: "المطر الحمضي"},
				{ID: "b", Text: "المطر الاستوائي"},
				{ID: "c", Text: "الثلج"},
			},
			CorrectChoice: "a",
		},
		{
			ID: "q6-8", Prompt: "أي سلوك يقلل من النفايات المنزلية؟",
			Choices: []Choice{
				{ID: "a", Text: "شراء منتجات بتغليف كثير"},
				{ID: "b", Text: "استعمال قارورة ماء قابلة لإعادة الاستعمال"},
				{ID: "c", Text: "استعمال أكياس بلاستيكية جديدة كل يوم"},
			},
			CorrectChoice: "b",
		},
		{
			ID: "q6-9", Prompt: "ما هي الطبقة التي تحمي الأرض من الأشعة فوق البنفسجية؟",
			Choices: []Choice{
				{ID: "a", Text: "طبقة الأوزون"},
				{ID: "b", Text: "طبقة الصخور"},
				{ID: "c", Text: "طبقة الجليد"},
			},
			CorrectChoice: "a",
		},
		{
			ID: "q6-10", Prompt: "أين تعيش معظم الكائنات البحرية المهددة بالتلوث البلاستيكي؟",
			Choices: []Choice{
				{ID: "a", Text: "في الصحراء"},
				{ID: "b", Text: "في الجبال"},
				{ID: "c", Text: "في المحيطات"},
			},
			CorrectChoice: "c",
		},
		{
			ID: "q6-11", Prompt: "ما فائدة السماد العضوي (الكومبوست)؟",
			Choices: []Choice{
				{ID: "a", Text: "يحول بقايا الطعام إلى غذاء للتربة"},
				{ID: "b", Text: "يلوث التربة"},
				{ID: "c", Text: "لا فائدة له"},
			},
			CorrectChoice: "a",
		},
		{
			ID: "q6-12", Prompt: "أي تصرف يساهم في حماية الطيور المهاجرة؟",
			Choices: []Choice{
				{ID: "a", Text: "تخريب أعشاشها"},
				{ID: "b", Text: "الحفاظ على المناطق الرطبة"},
				{ID: "c", Text: "إطلاق الألعاب النارية قربها"},
			},
			CorrectChoice: "b",
		},
	},
}
