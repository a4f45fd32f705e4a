package models

type LanguageLevel string

const (
	LevelStarter2 LanguageLevel = "starter2"
	LevelStarter3 LanguageLevel = "starter3"
	LevelStarter4 LanguageLevel = "starter4"
	Level5        LanguageLevel = "level5"
	Level6        LanguageLevel = "level6"
	Level7        LanguageLevel = "level7"
	Level8        LanguageLevel = "level8"
	LevelA11      LanguageLevel = "A1.1"
	LevelA12      LanguageLevel = "A1.2"
	LevelA21      LanguageLevel = "A2.1"
	LevelA22      LanguageLevel = "A2.2"
	LevelB11      LanguageLevel = "B1.1"
	LevelB12      LanguageLevel = "B1.2"
	LevelB21      LanguageLevel = "B2.1"
	LevelB22      LanguageLevel = "B2.2"
	LevelC11      LanguageLevel = "C1.1"
	LevelC12      LanguageLevel = "C1.2"
)

const (
	CategoryPrimary = "İlkokul"
	CategoryAdult   = "Lise/Üniversite/Yetişkin"
)

type LevelOption struct {
	Value    LanguageLevel `json:"value"`
	Label    string        `json:"label"`
	Category string        `json:"category"`
}

// LevelOptions is the canonical order used by forms and filters.
var LevelOptions = []LevelOption{
	{LevelStarter2, "Starter 2", CategoryPrimary},
	{LevelStarter3, "Starter 3", CategoryPrimary},
	{LevelStarter4, "Starter 4", CategoryPrimary},
	{Level5, "Level 5", CategoryPrimary},
	{Level6, "Level 6", CategoryPrimary},
	{Level7, "Level 7", CategoryPrimary},
	{Level8, "Level 8", CategoryPrimary},
	{LevelA11, "A1.1", CategoryAdult},
	{LevelA12, "A1.2", CategoryAdult},
	{LevelA21, "A2.1", CategoryAdult},
	{LevelA22, "A2.2", CategoryAdult},
	{LevelB11, "B1.1", CategoryAdult},
	{LevelB12, "B1.2", CategoryAdult},
	{LevelB21, "B2.1", CategoryAdult},
	{LevelB22, "B2.2", CategoryAdult},
	{LevelC11, "C1.1", CategoryAdult},
	{LevelC12, "C1.2", CategoryAdult},
}

func (l LanguageLevel) Valid() bool {
	_, ok := l.option()
	return ok
}

func (l LanguageLevel) Label() string {
	if o, ok := l.option(); ok {
		return o.Label
	}
	return string(l)
}

func (l LanguageLevel) Category() string {
	if o, ok := l.option(); ok {
		return o.Category
	}
	return ""
}

func (l LanguageLevel) option() (LevelOption, bool) {
	for _, o := range LevelOptions {
		if o.Value == l {
			return o, true
		}
	}
	return LevelOption{}, false
}

// Weekdays are stored by their Turkish names.
var Weekdays = []string{"Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi", "Pazar"}

var ClassTags = []string{"İlköğretim", "Lise", "Üniversite", "Yetişkin", "Sınav Grubu"}

type EducationLevel string

const (
	EducationPrimary    EducationLevel = "ilkogretim"
	EducationHighSchool EducationLevel = "lise"
	EducationUniversity EducationLevel = "universite"
	EducationAdult      EducationLevel = "yetiskin"
)

func (e EducationLevel) Label() string {
	switch e {
	case EducationPrimary:
		return "İlköğretim"
	case EducationHighSchool:
		return "Lise"
	case EducationUniversity:
		return "Üniversite"
	case EducationAdult:
		return "Yetişkin"
	default:
		return string(e)
	}
}

type StudentStatus string

const (
	StatusNew        StudentStatus = "yeni"
	StatusInterested StudentStatus = "ilgili"
	StatusEnrolled   StudentStatus = "kayitli"
	StatusCancelled  StudentStatus = "iptal"
)

func (s StudentStatus) Label() string {
	switch s {
	case StatusNew:
		return "Yeni"
	case StatusInterested:
		return "İlgili"
	case StatusEnrolled:
		return "Kayıtlı"
	case StatusCancelled:
		return "İptal"
	default:
		return string(s)
	}
}

type ContactType string

const (
	ContactPhone    ContactType = "telefon"
	ContactInPerson ContactType = "yuz-yuze"
)

func (c ContactType) Label() string {
	switch c {
	case ContactPhone:
		return "Telefon"
	case ContactInPerson:
		return "Yüz Yüze"
	default:
		return string(c)
	}
}

type PaymentType string

const (
	PaymentCash        PaymentType = "pesin"
	PaymentInstallment PaymentType = "taksit"
)

func (p PaymentType) Label() string {
	switch p {
	case PaymentCash:
		return "Peşin"
	case PaymentInstallment:
		return "Taksit"
	default:
		return string(p)
	}
}
