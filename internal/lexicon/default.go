package lexicon

import "github.com/lifebox/lifebox-cli/internal/model"

// Title rule ids. Each id names one branch of the title decision table.
const (
	TitlePaymentDue          = "payment_due"
	TitlePayment             = "payment"
	TitleAppointmentDateTime = "appointment_datetime"
	TitleAppointmentDate     = "appointment_date"
	TitleAppointment         = "appointment"
	TitleSchoolSubmit        = "school_submit"
	TitleSchoolSupplies      = "school_supplies"
	TitleSchoolDue           = "school_due"
	TitleSchool              = "school"
	TitleWorkSubmit          = "work_submit"
	TitleWorkReply           = "work_reply"
	TitleWorkDue             = "work_due"
	TitleWork                = "work"
	TitleSubmit              = "submit"
	TitleReply               = "reply"
	TitleDue                 = "due"
	TitleGeneric             = "generic"
)

// TitleIDs returns every title rule id.
func TitleIDs() []string {
	return []string{
		TitlePaymentDue, TitlePayment,
		TitleAppointmentDateTime, TitleAppointmentDate, TitleAppointment,
		TitleSchoolSubmit, TitleSchoolSupplies, TitleSchoolDue, TitleSchool,
		TitleWorkSubmit, TitleWorkReply, TitleWorkDue, TitleWork,
		TitleSubmit, TitleReply, TitleDue, TitleGeneric,
	}
}

// Default returns a fresh copy of the built-in ja-JP/en lexicon.
func Default() *Lexicon {
	return &Lexicon{
		HighRisk: []string{
			"至急", "緊急", "重要", "本日中", "今日中",
			"停止", "凍結", "ロック", "利用停止", "口座凍結",
			"延滞", "滞納", "督促", "差押", "法的", "訴訟",
			"不正利用", "不審", "セキュリティ", "本人確認が必要",
			"キャンセル料", "違約金",
			"urgent", "immediately", "suspend", "frozen", "locked", "overdue", "penalty",
		},
		MidRisk: []string{
			"期限", "締切", "まで", "支払い", "請求", "引落", "引き落とし",
			"予約", "来院", "面談", "提出", "更新", "手続き",
			"due", "deadline", "payment", "bill", "appointment", "submit", "renew",
		},
		Reply: []string{
			"返信", "返事", "ご回答", "回答", "連絡", "ご連絡", "提出", "送付",
			"電話", "お電話", "連絡してください", "知らせて", "確認してください",
			"call", "reply", "respond", "RSVP", "confirm", "submit",
		},
		Payment: []string{
			"支払い", "お支払い", "請求", "引落", "引き落とし", "クレジット", "カード",
			"口座", "残高", "振込", "振り込み", "入金", "出金", "銀行",
			"税", "保険料",
		},
		Appointment: []string{
			"予約", "来院", "受付", "診察", "受診", "通院",
			"美容院", "サロン", "ネイル", "歯科", "クリニック",
			"チェックイン", "ご来店", "集合",
			"予約変更", "変更", "キャンセル",
		},
		School: []string{
			"学校", "園", "保育園", "幼稚園", "小学校", "中学校", "高校",
			"保護者", "PTA", "参観", "面談", "懇談", "行事", "運動会", "遠足",
			"持ち物", "提出", "配布", "プリント",
		},
		Work: []string{
			"会議", "打ち合わせ", "ミーティング", "面談", "提出", "承認", "確認",
			"依頼", "対応", "作業", "タスク", "資料",
			"meeting", "review", "approve", "action required",
		},
		Submit:           []string{"提出"},
		Supplies:         []string{"持ち物"},
		DeadlineWords:    []string{"期限", "締切", "due", "支払い期限"},
		ObligationWords:  []string{"まで", "迄", "支払い", "提出", "予約", "来院", "引落", "請求"},
		UntilSuffixes:    []string{"まで", "迄"},
		Today:            []string{"今日", "本日", "今日中"},
		Tomorrow:         []string{"明日"},
		DayAfterTomorrow: []string{"明後日"},
		WeekMarkers:      []string{"来週", "今週"},
		Currencies: []CurrencySigns{
			{Code: model.CurrencyJPY, Signs: []string{"円", "¥", "JPY"}},
			{Code: model.CurrencyUSD, Signs: []string{"$", "USD"}},
			{Code: model.CurrencyCNY, Signs: []string{"元", "人民币", "RMB", "CNY"}},
		},
		EvidenceKeys: []string{
			"期限", "締切", "支払い", "請求", "引落", "予約", "来院", "提出", "持ち物", "会議", "面談", "更新",
		},
		Titles: map[string]string{
			TitlePaymentDue:          "支払い期限を確認して支払う",
			TitlePayment:             "支払いを行う",
			TitleAppointmentDateTime: "予約日時を確認して予定に行く",
			TitleAppointmentDate:     "予約日を確認して予定に行く",
			TitleAppointment:         "予約内容を確認する",
			TitleSchoolSubmit:        "学校提出物を準備して提出する",
			TitleSchoolSupplies:      "学校の持ち物を準備する",
			TitleSchoolDue:           "学校行事・期限を確認して対応する",
			TitleSchool:              "学校連絡を確認して対応する",
			TitleWorkSubmit:          "資料を準備して提出する",
			TitleWorkReply:           "内容を確認して返信する",
			TitleWorkDue:             "期限を確認して対応する",
			TitleWork:                "依頼内容を確認して対応する",
			TitleSubmit:              "提出する",
			TitleReply:               "内容を確認して返信する",
			TitleDue:                 "期限を確認して対応する",
			TitleGeneric:             "内容を確認して対応する",
		},
		Failsafe: Failsafe{
			Title: "内容確認が必要",
			Notes: "unreadable or empty text",
		},
	}
}
