// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reviewsrs

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/usecase/reviewsuc"
)

type createReviewReq struct {
	CarID   string `json:"carId" binding:"required,uuid"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

type updateReviewReq struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,min=1"`
}

func DserCreateReviewReq(c *gin.Context) *model.Review {
	req := &createReviewReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return &model.Review{
		CarID:   uuid.MustParse(req.CarID),
		Rating:  req.Rating,
		Comment: req.Comment,
	}
}

// DserUpdateReviewReq deserializes a review update. Emptiness of the
// patch is checked by the use case.
func DserUpdateReviewReq(c *gin.Context) *reviewsuc.Patch {
	req := &updateReviewReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return &reviewsuc.Patch{Rating: req.Rating, Comment: req.Comment}
}
