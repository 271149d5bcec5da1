package invalid

//autoinject:pooled
type Pooled struct{}

//autoinject:singleton as=Missing
type Unbound struct{}

//autoinject:scoped ctor=NewNothing
type NoConstructor struct{}

//autoinject:singleton
type Contract interface {
	Do()
}
