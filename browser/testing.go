package browser

import (
	"fmt"
	"sync"
	"time"
)

// ScriptedLauncher hands out pre-scripted pages in order, one per Launch.
// This is a test helper that should only be used in tests.
type ScriptedLauncher struct {
	mu       sync.Mutex
	pages    []*ScriptedPage
	browsers []*ScriptedBrowser

	// Launches counts how many browsers were launched.
	Launches int
	// LastOptions are the options of the most recent launch.
	LastOptions LaunchOptions
}

func NewScriptedLauncher(pages ...*ScriptedPage) *ScriptedLauncher {
	return &ScriptedLauncher{pages: pages}
}

func (l *ScriptedLauncher) Launch(options LaunchOptions) (Browser, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.Launches++
	l.LastOptions = options
	if len(l.pages) == 0 {
		return nil, fmt.Errorf("scripted launcher: no page scripted for launch %d", l.Launches)
	}
	page := l.pages[0]
	l.pages = l.pages[1:]
	b := &ScriptedBrowser{page: page}
	l.browsers = append(l.browsers, b)
	return b, nil
}

// AllClosed reports whether every launched browser has been closed again.
func (l *ScriptedLauncher) AllClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, b := range l.browsers {
		if !b.Closed {
			return false
		}
	}
	return true
}

// ScriptedBrowser is the fake Browser owning a single ScriptedPage.
type ScriptedBrowser struct {
	page   *ScriptedPage
	Closed bool
}

func (b *ScriptedBrowser) NewPage() (Page, error) {
	return b.page, nil
}

func (b *ScriptedBrowser) Close() error {
	b.Closed = true
	return nil
}

// ScriptedPage is a fake Page backed by a selector-keyed model of the
// remote document. Tests script it with fields, visible markers, element
// lists and click handlers, then assert on the recorded calls.
type ScriptedPage struct {
	mu sync.Mutex

	url      string
	fields   map[string]string
	visible  map[string]bool
	disabled map[string]bool
	elements map[string][]*ScriptedElement
	onClick  map[string]func(p *ScriptedPage)

	navPending bool
	closed     bool

	// TypeTransform mangles typed input before it reaches the field,
	// simulating flaky direct typing. Defaults to identity.
	TypeTransform func(selector, value string) string

	// Calls records every operation in order, e.g. "goto <url>" or
	// "type #email".
	Calls []string
}

func NewScriptedPage() *ScriptedPage {
	return &ScriptedPage{
		fields:   make(map[string]string),
		visible:  make(map[string]bool),
		disabled: make(map[string]bool),
		elements: make(map[string][]*ScriptedElement),
		onClick:  make(map[string]func(p *ScriptedPage)),
	}
}

// SetVisible marks a selector as present and visible (or removes it).
func (p *ScriptedPage) SetVisible(selector string, visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if visible {
		p.visible[selector] = true
	} else {
		delete(p.visible, selector)
	}
}

// SetField makes a form field exist with the given value.
func (p *ScriptedPage) SetField(selector, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible[selector] = true
	p.fields[selector] = value
}

// SetDisabled marks a control as disabled.
func (p *ScriptedPage) SetDisabled(selector string, disabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disabled[selector] = disabled
}

// SetElements scripts the element list returned for a selector.
func (p *ScriptedPage) SetElements(selector string, elements ...*ScriptedElement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements[selector] = elements
}

// HandleClick installs a handler that runs when the selector is clicked.
func (p *ScriptedPage) HandleClick(selector string, fn func(p *ScriptedPage)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible[selector] = true
	p.onClick[selector] = fn
}

// Navigate simulates a page navigation to url, typically from a click
// handler. The next WaitForNavigation call reports it.
func (p *ScriptedPage) Navigate(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
	p.navPending = true
}

// SetURL sets the current URL without marking a navigation.
func (p *ScriptedPage) SetURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
}

// Closed reports whether the page was closed.
func (p *ScriptedPage) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *ScriptedPage) record(format string, args ...any) {
	p.Calls = append(p.Calls, fmt.Sprintf(format, args...))
}

func (p *ScriptedPage) exists(selector string) bool {
	if p.visible[selector] {
		return true
	}
	return len(p.elements[selector]) > 0
}

func (p *ScriptedPage) Goto(url string, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("goto %s", url)
	p.url = url
	p.navPending = false
	return nil
}

func (p *ScriptedPage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *ScriptedPage) WaitForSelector(selector string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		p.mu.Lock()
		found := p.exists(selector)
		p.mu.Unlock()
		if found {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: waiting for %q", ErrTimeout, selector)
		}
		time.Sleep(time.Millisecond)
	}
}

func (p *ScriptedPage) IsVisible(selector string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exists(selector), nil
}

func (p *ScriptedPage) IsDisabled(selector string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disabled[selector], nil
}

func (p *ScriptedPage) Count(selector string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if elements, ok := p.elements[selector]; ok {
		return len(elements), nil
	}
	if p.visible[selector] {
		return 1, nil
	}
	return 0, nil
}

func (p *ScriptedPage) Type(selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("type %s", selector)
	if !p.exists(selector) {
		return fmt.Errorf("scripted page: no element %q", selector)
	}
	if p.TypeTransform != nil {
		value = p.TypeTransform(selector, value)
	}
	p.fields[selector] = value
	return nil
}

func (p *ScriptedPage) InputValue(selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.exists(selector) {
		return "", fmt.Errorf("scripted page: no element %q", selector)
	}
	return p.fields[selector], nil
}

func (p *ScriptedPage) SetValue(selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("setvalue %s", selector)
	if !p.exists(selector) {
		return fmt.Errorf("scripted page: no element %q", selector)
	}
	p.fields[selector] = value
	return nil
}

func (p *ScriptedPage) Click(selector string) error {
	p.mu.Lock()
	p.record("click %s", selector)
	if !p.exists(selector) {
		p.mu.Unlock()
		return fmt.Errorf("scripted page: no element %q", selector)
	}
	if p.disabled[selector] {
		p.mu.Unlock()
		return fmt.Errorf("scripted page: element %q is disabled", selector)
	}
	fn := p.onClick[selector]
	p.mu.Unlock()
	if fn != nil {
		fn(p)
	}
	return nil
}

func (p *ScriptedPage) ScrollIntoView(selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("scroll %s", selector)
	return nil
}

func (p *ScriptedPage) WaitForNavigation(timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.navPending {
		p.navPending = false
		return nil
	}
	return fmt.Errorf("%w: no navigation", ErrTimeout)
}

func (p *ScriptedPage) Elements(selector string) ([]Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	scripted := p.elements[selector]
	elements := make([]Element, len(scripted))
	for i, e := range scripted {
		elements[i] = e
	}
	return elements, nil
}

func (p *ScriptedPage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// ScriptedElement is the fake Element used in ScriptedPage element lists.
type ScriptedElement struct {
	TextContent string
	Attrs       map[string]string
	Children    map[string][]*ScriptedElement
	OnClick     func()

	// Clicks counts Click calls, LastChecked records the most recent
	// SetChecked argument (nil until called).
	Clicks      int
	LastChecked *bool
}

func (e *ScriptedElement) Text() (string, error) {
	return e.TextContent, nil
}

func (e *ScriptedElement) Attribute(name string) (string, error) {
	return e.Attrs[name], nil
}

func (e *ScriptedElement) Click() error {
	e.Clicks++
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}

func (e *ScriptedElement) ScrollIntoView() error {
	return nil
}

func (e *ScriptedElement) SetChecked(checked bool) error {
	e.LastChecked = &checked
	return nil
}

func (e *ScriptedElement) Elements(selector string) ([]Element, error) {
	scripted := e.Children[selector]
	elements := make([]Element, len(scripted))
	for i, child := range scripted {
		elements[i] = child
	}
	return elements, nil
}
