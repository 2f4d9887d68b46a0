package util

import (
	"errors"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"go.uber.org/zap"
)

// MaxFailureMessage is the longest message CodePipeline accepts in FailureDetails.
const MaxFailureMessage = 5000

type LambdaError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func NewError(message string, status int) error {
	return &LambdaError{Message: message, Status: status}
}

func (le *LambdaError) Error() string {
	return le.Message
}

// LogAWSError logs err with its AWS error code and, for failed requests, the
// HTTP status and request id.
func LogAWSError(log *zap.SugaredLogger, msg string, err error) {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		log.Errorw(msg, "Error", err)
		return
	}

	fields := []interface{}{"Error", err, "Code", aerr.Code(), "Message", aerr.Message()}

	var rerr awserr.RequestFailure
	if errors.As(err, &rerr) {
		fields = append(fields, "StatusCode", rerr.StatusCode(), "RequestID", rerr.RequestID())
	}

	log.Errorw(msg, fields...)
}

// FailureMessage turns err into a message suitable for a pipeline failure report.
func FailureMessage(err error) string {
	if err == nil || err.Error() == "" {
		return "cache invalidation failed"
	}
	return Truncate(err.Error(), MaxFailureMessage)
}

// Truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

