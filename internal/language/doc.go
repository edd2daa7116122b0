// Package language talks to the external language model service that supplies
// vocabulary pairs and the ordered segment list for a reading text.
package language
