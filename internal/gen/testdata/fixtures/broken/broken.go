package broken

//autoinject:singleton
type Service struct {
	dep undefinedType
}
