package handler

import (
	"errors"
	"net/http"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/service"

	"github.com/gin-gonic/gin"
)

// writeFailure maps a service failure onto the response: local
// validation problems are the caller's fault, server-reported failures
// keep the upstream status, everything else is a bad gateway
func writeFailure(c *gin.Context, err error) {
	var failure *service.Failure
	if errors.As(err, &failure) {
		switch failure.Kind {
		case service.FailureValidation:
			c.JSON(http.StatusBadRequest, gin.H{"error": failure.Reason})
		case service.FailureServer:
			status := failure.Status
			if status == 0 {
				status = http.StatusBadGateway
			}
			c.JSON(status, gin.H{"error": failure.Reason})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": failure.Reason})
		}
		return
	}

	c.JSON(http.StatusBadGateway, gin.H{"error": service.GenericConnectFailure})
}
