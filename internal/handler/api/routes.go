// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/recipeshare/recipeshare/internal/middleware"
)

// Routes builds the API router. publicLimit is the per-IP rate limit
// applied to unauthenticated write endpoints.
func (h *Handler) Routes(db *sqlx.DB, publicLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.LoadUser(h.sm, db))
	requireUser := middleware.RequireUser()

	r.Route("/auth", func(r chi.Router) {
		r.With(publicLimit).Post("/register", h.Register)
		r.With(h.loginProt.Middleware()).Post("/login", h.Login)
		r.With(h.loginProt.Middleware()).Post("/admin-login", h.AdminLogin)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/me", h.Me)
			r.Put("/profile", h.UpdateProfile)
			r.Put("/password", h.ChangePassword)
			r.Post("/delete-account", h.DeleteAccount)
		})
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.ListRecipes)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/mine", h.ListMyRecipes)
			r.Get("/saved", h.ListSavedRecipes)
			r.Post("/submit", h.SubmitRecipe)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetRecipe)

			r.Group(func(r chi.Router) {
				r.Use(requireUser)
				r.Put("/", h.UpdateRecipe)
				r.Delete("/", h.DeleteRecipe)
				r.Put("/publish", h.PublishRecipe)

				r.Post("/generate-image", h.GenerateImage)
				r.Post("/regenerate-image", h.RegenerateImage)
				r.Delete("/image", h.DeleteImage)

				r.Post("/save", h.SaveRecipe)
				r.Delete("/save", h.UnsaveRecipe)
				r.Get("/progress", h.GetProgress)
				r.Put("/progress", h.SaveProgress)
			})
		})
	})

	r.Route("/feedback", func(r chi.Router) {
		r.With(publicLimit).Post("/", h.SubmitFeedback)
		r.Get("/", h.ListFeedback)
	})

	r.Route("/reports", func(r chi.Router) {
		r.With(publicLimit).Post("/submit", h.SubmitReport)
		r.With(requireUser).Get("/my-reports", h.ListMyReports)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(h.sm, h.accounts))

		r.Get("/recipes", h.AdminListRecipes)
		r.Put("/recipes/{id}/moderate", h.AdminModerateRecipe)

		r.Get("/users", h.AdminListUsers)
		r.Get("/users/{id}", h.AdminGetUser)
		r.Post("/users/{id}/action", h.AdminUserAction)

		r.Get("/feedback", h.ListFeedback)
		r.Put("/feedback/{id}", h.AdminReviewFeedback)

		r.Get("/reports", h.AdminListReports)
		r.Put("/reports/{id}", h.AdminReviewReport)

		r.Get("/dashboard", h.AdminDashboard)
		r.Get("/activity", h.AdminActivity)
	})

	return r
}
