package customer

import (
	"errors"

	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var membershipErrorRules = []mappedHandlerError{
	{target: service.ErrProgramNotFound, code: response.CodeNotFound, msg: "loyalty card not found"},
	{target: service.ErrProgramInactive, code: response.CodeBadRequest, msg: "loyalty card inactive"},
	{target: service.ErrAlreadyMember, code: response.CodeConflict, msg: "already a member"},
	{target: service.ErrCodeExhausted, code: response.CodeConflict, msg: "no card code available"},
	{target: service.ErrCustomerNotFound, code: response.CodeUnauthorized, msg: "customer not found"},
	{target: service.ErrCardNotFound, code: response.CodeNotFound, msg: "card not found"},
}
