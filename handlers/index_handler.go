package handlers

import (
	"net/http"

	"github.com/upb/casting-agency/utils"
)

// Index handles GET /
func Index(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteSuccess(w, map[string]interface{}{"message": "Casting Agency API"})
}
