package domain

type Todo struct {
	TodoID    string `json:"id" dynamodbav:"todo_id"`
	Text      string `json:"text" dynamodbav:"text"`
	Completed bool   `json:"completed" dynamodbav:"completed"`
	CreatedAt int64  `json:"created" dynamodbav:"created_at"` // unix ms
}

type CreateTodoRequest struct {
	Text string `json:"text" validate:"required"`
}
