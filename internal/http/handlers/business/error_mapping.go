package business

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

var ownershipErrorRules = []mappedHandlerError{
	{target: service.ErrBusinessNotFound, code: response.CodeNotFound, msg: "business not found"},
	{target: service.ErrProgramNotFound, code: response.CodeNotFound, msg: "loyalty card not found"},
	{target: service.ErrPermissionDenied, code: response.CodeForbidden, msg: "permission denied"},
	{target: service.ErrBusinessInvalid, code: response.CodeBadRequest, msg: "invalid business"},
	{target: service.ErrProgramInvalid, code: response.CodeBadRequest, msg: "invalid loyalty card"},
}

var stampingErrorRules = []mappedHandlerError{
	{target: service.ErrCardNotFound, code: response.CodeNotFound, msg: "card not found"},
	{target: service.ErrCardNotStampable, code: response.CodeBadRequest, msg: "card not stampable"},
	{target: service.ErrIneligibleClaim, code: response.CodeBadRequest, msg: "card not eligible"},
	{target: service.ErrProgramNotFound, code: response.CodeNotFound, msg: "loyalty card not found"},
}
