package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"persona-server/internal/config"
	"persona-server/internal/interfaces/httpserver/handlers/billinghandler"
	"persona-server/internal/interfaces/httpserver/handlers/chathandler"
	"persona-server/internal/interfaces/httpserver/handlers/embedhandler"
	"persona-server/internal/interfaces/httpserver/handlers/personagenhandler"
	"persona-server/internal/interfaces/httpserver/handlers/speechhandler"
	"persona-server/internal/interfaces/httpserver/handlers/widgethandler"
)

type V1Route struct {
	chat       *chathandler.ChatHandler
	widget     *widgethandler.WidgetHandler
	personaGen *personagenhandler.PersonaGenerateHandler
	speech     *speechhandler.SpeechHandler
	billing    *billinghandler.BillingHandler
	embed      *embedhandler.EmbedHandler
}

func NewV1Route(
	chat *chathandler.ChatHandler,
	widget *widgethandler.WidgetHandler,
	personaGen *personagenhandler.PersonaGenerateHandler,
	speech *speechhandler.SpeechHandler,
	billing *billinghandler.BillingHandler,
	embed *embedhandler.EmbedHandler,
) *V1Route {
	return &V1Route{
		chat,
		widget,
		personaGen,
		speech,
		billing,
		embed,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)

	v1Router.POST("/chat", v1Route.chat.Chat)
	v1Router.POST("/widget/chat", v1Route.widget.Chat)
	v1Router.POST("/personas/generate", v1Route.personaGen.Generate)
	v1Router.POST("/speech", v1Route.speech.Synthesize)
	v1Router.POST("/billing/checkout", v1Route.billing.CreateCheckout)
	v1Router.POST("/billing/webhook", v1Route.billing.Webhook)
	v1Router.GET("/embed", v1Route.embed.Embed)
}

// GetVersion reports the build version.
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": config.Version})
}
