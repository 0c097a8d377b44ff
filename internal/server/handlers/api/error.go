package api

import "fmt"

type WikiAPIError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *WikiAPIError) Error() string {
	return fmt.Sprintf("wiki api error: code=%s, message=%s", e.Code, e.Message)
}
