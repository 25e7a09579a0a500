package domain

// Question es una entrada del cuestionario fijo.
type Question struct {
	ID          int    `json:"id" yaml:"id"`
	Prompt      string `json:"question" yaml:"prompt"`
	Field       string `json:"field" yaml:"field"`
	ExampleHint string `json:"placeholder" yaml:"example_hint"`
}

// Progress describe el avance dentro del cuestionario.
type Progress struct {
	Current    int `json:"current"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// QAPair empareja el texto de una pregunta con la respuesta del usuario.
type QAPair struct {
	QuestionID int    `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"response"`
}
