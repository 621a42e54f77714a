package blog

// Reason причина, по которой вместо сгенерированного контента вернулась заглушка.
type Reason int

const (
	ReasonNone          Reason = iota // контент сгенерирован
	ReasonNotConfigured               // нет ключа или сервис выключен
	ReasonRequestFailed               // ошибка запроса к бэкенду
	ReasonEmptyResult                 // бэкенд ответил, но без контента
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNotConfigured:
		return "not_configured"
	case ReasonRequestFailed:
		return "request_failed"
	case ReasonEmptyResult:
		return "empty_result"
	default:
		return "unknown"
	}
}

// Outcome результат операции: значение и причина заглушки, если она была.
// Err заполнен, если заглушка вызвана ошибкой бэкенда.
type Outcome struct {
	Value  string
	Reason Reason
	Err    error
}

// Fallback сообщает, что Value — заглушка, а не сгенерированный контент.
func (o Outcome) Fallback() bool { return o.Reason != ReasonNone }

func ok(v string) Outcome { return Outcome{Value: v} }

func fallback(v string, reason Reason, err error) Outcome {
	return Outcome{Value: v, Reason: reason, Err: err}
}
