package entity

import (
	"fmt"
	"strings"
)

// None is the sentinel option shared by the optional speech selections.
const None = "없음"

type (
	GreetingType    string
	Speaker         string
	Audience        string
	SecondAudience  string
	Season          string
	QuoteStyle      string
	DisasterContext string
)

const (
	GreetingPublic    GreetingType = "대중적"
	GreetingFestival  GreetingType = "축제행사"
	GreetingCommittee GreetingType = "위원회"
	GreetingMemorial  GreetingType = "명정"

	SpeakerMayor         Speaker = "밀양시장"
	SpeakerCouncilChair  Speaker = "시의회 의장"
	SpeakerDirector      Speaker = "국장"
	SpeakerCommitteeHead Speaker = "위원장"

	AudienceCitizens   Audience = "밀양시민"
	AudienceTourists   Audience = "관광객"
	AudienceOfficials  Audience = "공직자"
	AudienceCommittees Audience = "개별위원"

	SecondAudienceNone     SecondAudience = None
	SecondAudienceYouth    SecondAudience = "청년"
	SecondAudienceDisabled SecondAudience = "장애인"
	SecondAudienceWomen    SecondAudience = "여성단체"

	SeasonSpring Season = "봄"
	SeasonSummer Season = "여름"
	SeasonAutumn Season = "가을"
	SeasonWinter Season = "겨울"

	QuoteNone       QuoteStyle = None
	QuoteEmpathy    QuoteStyle = "감정이입"
	QuoteIdiom      QuoteStyle = "사자성어"
	QuoteProverb    QuoteStyle = "속담"
	QuoteEnglishSaw QuoteStyle = "영어격언"

	DisasterNone     DisasterContext = None
	DisasterDamage   DisasterContext = "재난피해"
	DisasterRecovery DisasterContext = "재난복구"
)

// Option lists, first entry is the form default.
var (
	GreetingTypes    = []GreetingType{GreetingPublic, GreetingFestival, GreetingCommittee, GreetingMemorial}
	Speakers         = []Speaker{SpeakerMayor, SpeakerCouncilChair, SpeakerDirector, SpeakerCommitteeHead}
	Audiences        = []Audience{AudienceCitizens, AudienceTourists, AudienceOfficials, AudienceCommittees}
	SecondAudiences  = []SecondAudience{SecondAudienceNone, SecondAudienceYouth, SecondAudienceDisabled, SecondAudienceWomen}
	Seasons          = []Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}
	QuoteStyles      = []QuoteStyle{QuoteNone, QuoteEmpathy, QuoteIdiom, QuoteProverb, QuoteEnglishSaw}
	DisasterContexts = []DisasterContext{DisasterNone, DisasterDamage, DisasterRecovery}
)

// SpeechRequest is the set of selections of the speech form.
type SpeechRequest struct {
	Title          string
	Greeting       GreetingType
	Speaker        Speaker
	Audience       Audience
	SecondAudience SecondAudience
	Season         Season
	Quote          QuoteStyle
	Disaster       DisasterContext
}

// DefaultSpeechRequest is the untouched form.
func DefaultSpeechRequest() SpeechRequest {
	return SpeechRequest{
		Greeting:       GreetingTypes[0],
		Speaker:        Speakers[0],
		Audience:       Audiences[0],
		SecondAudience: SecondAudiences[0],
		Season:         Seasons[0],
		Quote:          QuoteStyles[0],
		Disaster:       DisasterContexts[0],
	}
}

// Normalize fills unset selections with the form defaults. The title is
// kept exactly as typed.
func (r SpeechRequest) Normalize() SpeechRequest {
	d := DefaultSpeechRequest()
	r.Greeting = orDefault(r.Greeting, d.Greeting)
	r.Speaker = orDefault(r.Speaker, d.Speaker)
	r.Audience = orDefault(r.Audience, d.Audience)
	r.SecondAudience = orDefault(r.SecondAudience, d.SecondAudience)
	r.Season = orDefault(r.Season, d.Season)
	r.Quote = orDefault(r.Quote, d.Quote)
	r.Disaster = orDefault(r.Disaster, d.Disaster)
	return r
}

// Validate rejects selections outside the closed option sets.
func (r SpeechRequest) Validate() error {
	checks := []struct {
		field string
		value string
		ok    bool
	}{
		{"greeting", string(r.Greeting), contains(GreetingTypes, r.Greeting)},
		{"speaker", string(r.Speaker), contains(Speakers, r.Speaker)},
		{"audience", string(r.Audience), contains(Audiences, r.Audience)},
		{"second_audience", string(r.SecondAudience), contains(SecondAudiences, r.SecondAudience)},
		{"season", string(r.Season), contains(Seasons, r.Season)},
		{"quote", string(r.Quote), contains(QuoteStyles, r.Quote)},
		{"disaster", string(r.Disaster), contains(DisasterContexts, r.Disaster)},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("unknown %s option %q", c.field, c.value)
		}
	}
	return nil
}

// Fragment is the prompt sentence for the quotation style.
func (q QuoteStyle) Fragment() string {
	switch q {
	case QuoteEmpathy:
		return "감정을 이입할 수 있는 문장을 1회 언급하며,"
	case QuoteIdiom:
		return "적절한 사자성어를 1회 인용하고,"
	case QuoteProverb:
		return "속담을 활용하여 표현을 풍부하게 하며,"
	case QuoteEnglishSaw:
		return "영어 격언을 통해 인상 깊게 전달합니다."
	default:
		return "인용 없이 간결하게 구성됩니다."
	}
}

// Fragment is the prompt sentence for the disaster context.
func (d DisasterContext) Fragment() string {
	switch d {
	case DisasterDamage:
		return "최근 재난피해를 고려하여 위로와 공감을 담고,"
	case DisasterRecovery:
		return "복구 현황과 감사 인사를 포함하며,"
	default:
		return "재난 관련 내용은 포함되지 않습니다."
	}
}

func orDefault[T ~string](v, def T) T {
	if s := strings.TrimSpace(string(v)); s != "" {
		return T(s)
	}
	return def
}

func contains[T comparable](options []T, v T) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// Strings converts an option list for rendering.
func Strings[T ~string](options []T) []string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = string(o)
	}
	return out
}
