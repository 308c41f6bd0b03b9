/*
Package utils contains decorators wrapping the runtime of the application:
logging, panic recovery, store savepoints, prometheus metrics and result
tagging.
*/
package utils
