package controllers

import (
	"errors"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/agriconnect/agriconnect_backend/middleware"
)

// currentUserID resolves the caller's ObjectID from the JWT claims.
func currentUserID(c echo.Context) (primitive.ObjectID, error) {
	raw, err := middleware.ExtractUserID(c)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, errors.New("invalid user id in token")
	}
	return id, nil
}
