package el

// On binds a handler to an arbitrary event. Handlers are func() or
// func(payload any) values; the host dispatches them.
func On(event string, handler any) Attr {
	return Attr{Key: "on" + event, Value: handler}
}

func OnClick(handler any) Attr { return On("click", handler) }
func OnDblClick(handler any) Attr { return On("dblclick", handler) }
func OnInput(handler any) Attr { return On("input", handler) }
func OnChange(handler any) Attr { return On("change", handler) }
func OnSubmit(handler any) Attr { return On("submit", handler) }
func OnFocus(handler any) Attr { return On("focus", handler) }
func OnBlur(handler any) Attr { return On("blur", handler) }
func OnKeyDown(handler any) Attr { return On("keydown", handler) }
func OnKeyUp(handler any) Attr { return On("keyup", handler) }
func OnMouseEnter(handler any) Attr { return On("mouseenter", handler) }
func OnMouseLeave(handler any) Attr { return On("mouseleave", handler) }
func OnScroll(handler any) Attr { return On("scroll", handler) }
