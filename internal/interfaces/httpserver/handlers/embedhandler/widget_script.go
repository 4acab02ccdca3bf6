package embedhandler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// widgetScript is the self-contained embed script. It renders a floating chat
// bubble and talks to /v1/widget/chat on the hosting server.
const widgetScript = `(function () {
  "use strict";

  var script = document.currentScript;
  var personaId = script.getAttribute("data-persona-id");
  var base = script.src.replace(/\/widget\.js.*$/, "");
  if (!personaId) return;

  var sessionKey = "persona-widget-session-" + personaId;
  var sessionId = window.localStorage.getItem(sessionKey);
  if (!sessionId) {
    sessionId = "ws-" + Math.random().toString(36).slice(2) + Date.now().toString(36);
    window.localStorage.setItem(sessionKey, sessionId);
  }

  var root = document.createElement("div");
  root.id = "persona-widget";
  root.innerHTML =
    '<div class="pw-bubble">&#128172;</div>' +
    '<div class="pw-panel" hidden>' +
    '<div class="pw-messages"></div>' +
    '<form class="pw-form"><input class="pw-input" placeholder="Ask me anything..."/><button>Send</button></form>' +
    "</div>";

  var style = document.createElement("style");
  style.textContent =
    "#persona-widget{position:fixed;bottom:16px;right:16px;z-index:99999;font-family:sans-serif}" +
    "#persona-widget .pw-bubble{width:52px;height:52px;border-radius:50%;background:#4f46e5;color:#fff;display:flex;align-items:center;justify-content:center;cursor:pointer;font-size:24px}" +
    "#persona-widget .pw-panel{width:320px;height:420px;background:#fff;border:1px solid #ddd;border-radius:12px;display:flex;flex-direction:column;overflow:hidden;box-shadow:0 8px 24px rgba(0,0,0,.15)}" +
    "#persona-widget .pw-messages{flex:1;overflow-y:auto;padding:12px;font-size:14px}" +
    "#persona-widget .pw-form{display:flex;border-top:1px solid #eee}" +
    "#persona-widget .pw-input{flex:1;border:0;padding:10px;outline:none}" +
    "#persona-widget .pw-form button{border:0;background:#4f46e5;color:#fff;padding:0 16px;cursor:pointer}" +
    "#persona-widget .pw-msg{margin-bottom:8px}" +
    "#persona-widget .pw-msg.user{text-align:right;color:#4f46e5}";

  document.head.appendChild(style);
  document.body.appendChild(root);

  var bubble = root.querySelector(".pw-bubble");
  var panel = root.querySelector(".pw-panel");
  var messages = root.querySelector(".pw-messages");
  var form = root.querySelector(".pw-form");
  var input = root.querySelector(".pw-input");

  bubble.addEventListener("click", function () {
    panel.hidden = !panel.hidden;
  });

  function append(role, text) {
    var div = document.createElement("div");
    div.className = "pw-msg " + role;
    div.textContent = text;
    messages.appendChild(div);
    messages.scrollTop = messages.scrollHeight;
  }

  form.addEventListener("submit", function (ev) {
    ev.preventDefault();
    var text = input.value.trim();
    if (!text) return;
    input.value = "";
    append("user", text);
    fetch(base + "/v1/widget/chat", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ message: text, personaId: personaId, sessionId: sessionId })
    })
      .then(function (res) { return res.json(); })
      .then(function (data) { append("assistant", data.message || data.error || "..."); })
      .catch(function () { append("assistant", "Sorry, something went wrong."); });
  });
})();
`

var widgetScriptETag = func() string {
	sum := sha256.Sum256([]byte(widgetScript))
	return `"` + hex.EncodeToString(sum[:8]) + `"`
}()

// WidgetScript handles GET /widget.js. The script is immutable per build, so
// it is served with aggressive caching.
func (h *EmbedHandler) WidgetScript(reqCtx *gin.Context) {
	if match := reqCtx.GetHeader("If-None-Match"); match != "" && strings.Contains(match, widgetScriptETag) {
		reqCtx.Status(304)
		return
	}

	reqCtx.Header("Cache-Control", "public, max-age=86400, immutable")
	reqCtx.Header("ETag", widgetScriptETag)
	reqCtx.Header("Content-Length", fmt.Sprintf("%d", len(widgetScript)))
	reqCtx.Data(200, "application/javascript; charset=utf-8", []byte(widgetScript))
}
